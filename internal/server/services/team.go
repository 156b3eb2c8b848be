package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/feedbackportal/internal/common"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/repomanager"
)

var errAssignedElsewhere = common.Detail(common.ErrConflict, "Employee is already assigned to another manager")

type TeamService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTeamService(db *sql.DB, m repomanager.RepositoryManager) *TeamService {
	return &TeamService{db: db, repomanager: m}
}

// requireSelf allows only the manager whose id is in the path.
func requireSelf(caller *models.User, managerID string) error {
	if !caller.IsManager() || caller.ID != managerID {
		return forbidden("Not authorized to manage this team")
	}
	return nil
}

func (s *TeamService) Team(ctx context.Context, caller *models.User, managerID string) ([]*models.User, error) {
	if err := requireSelf(caller, managerID); err != nil {
		return nil, err
	}
	team, err := s.repomanager.Users(s.db).ListTeam(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("error listing team: %w", err)
	}
	return team, nil
}

func (s *TeamService) Available(ctx context.Context, caller *models.User, managerID string) ([]*models.User, error) {
	if err := requireSelf(caller, managerID); err != nil {
		return nil, err
	}
	available, err := s.repomanager.Users(s.db).ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing available employees: %w", err)
	}
	return available, nil
}

// Assign puts an unassigned employee on the caller's team. Repeating the
// call for an employee already on the team is a no-op.
func (s *TeamService) Assign(ctx context.Context, caller *models.User, managerID, employeeID string) (*models.User, error) {
	if err := requireSelf(caller, managerID); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	employee, err := repo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, notFound("Employee not found")
		}
		return nil, fmt.Errorf("error loading employee: %w", err)
	}

	switch {
	case !employee.IsEmployee():
		return nil, invalid("User is not an employee")
	case employee.ManagedBy(managerID):
		return employee, nil
	case employee.ManagerID != nil:
		return nil, errAssignedElsewhere
	}

	if err := repo.SetManager(ctx, employeeID, managerID); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, errAssignedElsewhere
		}
		return nil, fmt.Errorf("error assigning employee: %w", err)
	}

	employee.ManagerID = &managerID
	return employee, nil
}
