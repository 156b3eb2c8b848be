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
	"github.com/google/uuid"
)

type RequestService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRequestService(db *sql.DB, m repomanager.RepositoryManager) *RequestService {
	return &RequestService{db: db, repomanager: m}
}

// Create files a pending request addressed to the caller's manager.
func (s *RequestService) Create(ctx context.Context, caller *models.User, message *string) (*models.FeedbackRequest, error) {
	if !caller.IsEmployee() {
		return nil, forbidden("Only employees can request feedback")
	}
	if caller.ManagerID == nil {
		return nil, invalid("You are not assigned to a manager")
	}

	req, err := s.repomanager.Requests(s.db).Create(ctx, &models.FeedbackRequest{
		ID:         uuid.NewString(),
		EmployeeID: caller.ID,
		ManagerID:  *caller.ManagerID,
		Message:    trimmedOrNil(message),
		Status:     api.RequestPending,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	return req, nil
}

// List returns the caller's own requests, or those addressed to a manager.
func (s *RequestService) List(ctx context.Context, caller *models.User) ([]*models.FeedbackRequest, error) {
	repo := s.repomanager.Requests(s.db)
	var (
		list []*models.FeedbackRequest
		err  error
	)
	if caller.IsManager() {
		list, err = repo.ListByManager(ctx, caller.ID)
	} else {
		list, err = repo.ListByEmployee(ctx, caller.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing requests: %w", err)
	}
	return list, nil
}

func (s *RequestService) Pending(ctx context.Context, caller *models.User) ([]*models.FeedbackRequest, error) {
	if !caller.IsManager() {
		return nil, forbidden("Only managers receive feedback requests")
	}
	list, err := s.repomanager.Requests(s.db).ListPending(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing requests: %w", err)
	}
	return list, nil
}

func (s *RequestService) ForManager(ctx context.Context, caller *models.User) ([]*models.FeedbackRequest, error) {
	if !caller.IsManager() {
		return nil, forbidden("Only managers receive feedback requests")
	}
	list, err := s.repomanager.Requests(s.db).ListByManager(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing requests: %w", err)
	}
	return list, nil
}

func (s *RequestService) Approve(ctx context.Context, caller *models.User, id string) (*models.FeedbackRequest, error) {
	return s.resolve(ctx, caller, id, api.RequestApproved)
}

func (s *RequestService) Deny(ctx context.Context, caller *models.User, id string) (*models.FeedbackRequest, error) {
	return s.resolve(ctx, caller, id, api.RequestDenied)
}

func (s *RequestService) resolve(ctx context.Context, caller *models.User, id string, status api.RequestStatus) (*models.FeedbackRequest, error) {
	repo := s.repomanager.Requests(s.db)

	req, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errRequestNotFound
		}
		return nil, fmt.Errorf("error loading request: %w", err)
	}
	if !caller.IsManager() || req.ManagerID != caller.ID {
		return nil, forbidden("Feedback request is addressed to another manager")
	}
	if !req.Pending() {
		return nil, errRequestNotPending
	}

	updated, err := repo.Resolve(ctx, id, status, nil)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, errRequestNotPending
		}
		return nil, fmt.Errorf("error updating request: %w", err)
	}
	return updated, nil
}
