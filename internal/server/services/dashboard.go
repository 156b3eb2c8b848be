package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/common"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/repomanager"
)

// EmployeeDashboard is the employee's timeline plus its aggregates.
type EmployeeDashboard struct {
	Employee          *models.User
	Timeline          []*models.Feedback
	SentimentTrends   map[api.Sentiment]int
	AcknowledgedCount int
}

type DashboardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	feedback    *FeedbackService
}

func NewDashboardService(db *sql.DB, m repomanager.RepositoryManager, feedback *FeedbackService) *DashboardService {
	return &DashboardService{db: db, repomanager: m, feedback: feedback}
}

// countSentiments always reports all three sentiments.
func countSentiments(list []*models.Feedback) (map[api.Sentiment]int, int) {
	trends := api.NewSentimentTrends()
	acknowledged := 0
	for _, fb := range list {
		trends[fb.Sentiment]++
		if fb.Acknowledgement != nil {
			acknowledged++
		}
	}
	return trends, acknowledged
}

func (s *DashboardService) ManagerStats(ctx context.Context, caller *models.User) (*models.ManagerStats, error) {
	if !caller.IsManager() {
		return nil, forbidden("Only managers have a dashboard")
	}

	authored, err := s.feedback.ByManager(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	team, err := s.repomanager.Users(s.db).ListTeam(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing team: %w", err)
	}
	pending, err := s.repomanager.Requests(s.db).ListPending(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing requests: %w", err)
	}

	trends, acknowledged := countSentiments(authored)
	return &models.ManagerStats{
		FeedbackCount:     len(authored),
		TeamSize:          len(team),
		AcknowledgedCount: acknowledged,
		PendingRequests:   len(pending),
		SentimentTrends:   trends,
	}, nil
}

// Employee is visible to the employee and to their manager.
func (s *DashboardService) Employee(ctx context.Context, caller *models.User, employeeID string) (*EmployeeDashboard, error) {
	employee, err := s.repomanager.Users(s.db).GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, notFound("Employee not found")
		}
		return nil, fmt.Errorf("error loading employee: %w", err)
	}
	if caller.ID != employee.ID && !(caller.IsManager() && employee.ManagedBy(caller.ID)) {
		return nil, forbidden("Not authorized to view this dashboard")
	}

	timeline, err := s.feedback.ByEmployee(ctx, employee.ID)
	if err != nil {
		return nil, err
	}

	trends, acknowledged := countSentiments(timeline)
	return &EmployeeDashboard{
		Employee:          employee,
		Timeline:          timeline,
		SentimentTrends:   trends,
		AcknowledgedCount: acknowledged,
	}, nil
}
