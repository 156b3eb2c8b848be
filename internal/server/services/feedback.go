package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/common"
	"github.com/dmitrijs2005/feedbackportal/internal/dbx"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	errFeedbackNotFound    = notFound("Feedback not found")
	errRequestNotFound     = notFound("Feedback request not found")
	errRequestNotPending   = common.Detail(common.ErrConflict, "Feedback request is not pending")
	errAlreadyAcknowledged = common.Detail(common.ErrConflict, "Feedback already acknowledged")
)

type FeedbackService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFeedbackService(db *sql.DB, m repomanager.RepositoryManager) *FeedbackService {
	return &FeedbackService{db: db, repomanager: m}
}

// Create records feedback from the caller to one of their employees. When
// in.RequestID is set the referenced request is completed in the same
// transaction.
func (s *FeedbackService) Create(ctx context.Context, caller *models.User, in api.FeedbackCreate) (*models.Feedback, error) {
	if !caller.IsManager() {
		return nil, forbidden("Only managers can give feedback")
	}
	if err := validateFeedbackText(in.Strengths, in.Sentiment); err != nil {
		return nil, err
	}

	employee, err := s.repomanager.Users(s.db).GetByID(ctx, in.EmployeeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, notFound("Employee not found")
		}
		return nil, fmt.Errorf("error loading employee: %w", err)
	}
	if !employee.ManagedBy(caller.ID) {
		return nil, forbidden("Employee is not on your team")
	}

	tagIDs, err := s.checkTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	if in.RequestID != nil {
		if err := s.checkRequest(ctx, caller, employee, *in.RequestID); err != nil {
			return nil, err
		}
	}

	fb := &models.Feedback{
		ID:           uuid.NewString(),
		EmployeeID:   employee.ID,
		ManagerID:    caller.ID,
		Strengths:    strings.TrimSpace(in.Strengths),
		Improvements: strings.TrimSpace(in.Improvements),
		Sentiment:    in.Sentiment,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Feedback(tx).Create(ctx, fb); err != nil {
			return fmt.Errorf("error creating feedback: %w", err)
		}
		if err := s.repomanager.Tags(tx).SetForFeedback(ctx, fb.ID, tagIDs); err != nil {
			return fmt.Errorf("error tagging feedback: %w", err)
		}
		if in.RequestID != nil {
			if _, err := s.repomanager.Requests(tx).Resolve(ctx, *in.RequestID, api.RequestCompleted, &fb.ID); err != nil {
				if errors.Is(err, common.ErrConflict) {
					return errRequestNotPending
				}
				return fmt.Errorf("error completing request: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.hydrate(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

func (s *FeedbackService) checkRequest(ctx context.Context, caller, employee *models.User, requestID string) error {
	req, err := s.repomanager.Requests(s.db).GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errRequestNotFound
		}
		return fmt.Errorf("error loading request: %w", err)
	}
	switch {
	case req.ManagerID != caller.ID:
		return forbidden("Feedback request is addressed to another manager")
	case req.EmployeeID != employee.ID:
		return invalid("Feedback request belongs to another employee")
	case !req.Pending():
		return errRequestNotPending
	}
	return nil
}

// checkTags returns the de-duplicated ids once every one of them exists.
func (s *FeedbackService) checkTags(ctx context.Context, ids []string) ([]string, error) {
	ids = dedupe(ids)
	repo := s.repomanager.Tags(s.db)
	for _, id := range ids {
		if _, err := repo.GetByID(ctx, id); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, invalid("Unknown tag: " + id)
			}
			return nil, fmt.Errorf("error loading tag: %w", err)
		}
	}
	return ids, nil
}

// Update replaces the text, sentiment and tags. Only the author may edit.
func (s *FeedbackService) Update(ctx context.Context, caller *models.User, id string, in api.FeedbackUpdate) (*models.Feedback, error) {
	fb, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if fb.ManagerID != caller.ID {
		return nil, forbidden("Only the author can edit this feedback")
	}
	if err := validateFeedbackText(in.Strengths, in.Sentiment); err != nil {
		return nil, err
	}
	tagIDs, err := s.checkTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	fb.Strengths = strings.TrimSpace(in.Strengths)
	fb.Improvements = strings.TrimSpace(in.Improvements)
	fb.Sentiment = in.Sentiment

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Feedback(tx).Update(ctx, fb); err != nil {
			return fmt.Errorf("error updating feedback: %w", err)
		}
		if err := s.repomanager.Tags(tx).SetForFeedback(ctx, fb.ID, tagIDs); err != nil {
			return fmt.Errorf("error tagging feedback: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.hydrate(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

// Get returns one item to its author or its subject.
func (s *FeedbackService) Get(ctx context.Context, caller *models.User, id string) (*models.Feedback, error) {
	fb, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !fb.VisibleTo(caller.ID) {
		return nil, forbidden("Not authorized to view this feedback")
	}
	if err := s.hydrate(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

// List returns what the caller authored (managers) or received (employees).
func (s *FeedbackService) List(ctx context.Context, caller *models.User) ([]*models.Feedback, error) {
	if caller.IsManager() {
		return s.ByManager(ctx, caller.ID)
	}
	return s.ByEmployee(ctx, caller.ID)
}

func (s *FeedbackService) ForEmployee(ctx context.Context, caller *models.User) ([]*models.Feedback, error) {
	if !caller.IsEmployee() {
		return nil, forbidden("Only employees have a feedback timeline")
	}
	return s.ByEmployee(ctx, caller.ID)
}

func (s *FeedbackService) ForManager(ctx context.Context, caller *models.User) ([]*models.Feedback, error) {
	if !caller.IsManager() {
		return nil, forbidden("Only managers author feedback")
	}
	return s.ByManager(ctx, caller.ID)
}

// ByEmployee is the employee's timeline, newest first.
func (s *FeedbackService) ByEmployee(ctx context.Context, employeeID string) ([]*models.Feedback, error) {
	list, err := s.repomanager.Feedback(s.db).ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("error listing feedback: %w", err)
	}
	if err := s.hydrateAll(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *FeedbackService) ByManager(ctx context.Context, managerID string) ([]*models.Feedback, error) {
	list, err := s.repomanager.Feedback(s.db).ListByManager(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("error listing feedback: %w", err)
	}
	if err := s.hydrateAll(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Acknowledge records that the subject employee has read the feedback.
// It succeeds once per item.
func (s *FeedbackService) Acknowledge(ctx context.Context, caller *models.User, id string, comment *string) (*models.Acknowledgement, error) {
	fb, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if fb.EmployeeID != caller.ID {
		return nil, forbidden("Only the employee can acknowledge this feedback")
	}

	ack, err := s.repomanager.Acknowledgements(s.db).Create(ctx, &models.Acknowledgement{
		FeedbackID: fb.ID,
		EmployeeID: caller.ID,
		Comment:    trimmedOrNil(comment),
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, errAlreadyAcknowledged
		}
		return nil, fmt.Errorf("error acknowledging feedback: %w", err)
	}
	return ack, nil
}

// AcknowledgementStatus returns nil, nil when employeeID has not
// acknowledged the item.
func (s *FeedbackService) AcknowledgementStatus(ctx context.Context, caller *models.User, id, employeeID string) (*models.Acknowledgement, error) {
	fb, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !fb.VisibleTo(caller.ID) {
		return nil, forbidden("Not authorized to view this feedback")
	}

	ack, err := s.repomanager.Acknowledgements(s.db).Get(ctx, fb.ID, employeeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error loading acknowledgement: %w", err)
	}
	return ack, nil
}

func (s *FeedbackService) AddComment(ctx context.Context, caller *models.User, id, text string) (*models.Comment, error) {
	fb, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !fb.VisibleTo(caller.ID) {
		return nil, forbidden("Not authorized to comment on this feedback")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("Comment cannot be empty")
	}

	c, err := s.repomanager.Comments(s.db).Create(ctx, &models.Comment{
		ID:         uuid.NewString(),
		FeedbackID: fb.ID,
		AuthorID:   caller.ID,
		Comment:    text,
	})
	if err != nil {
		return nil, fmt.Errorf("error adding comment: %w", err)
	}
	return c, nil
}

func (s *FeedbackService) load(ctx context.Context, id string) (*models.Feedback, error) {
	fb, err := s.repomanager.Feedback(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errFeedbackNotFound
		}
		return nil, fmt.Errorf("error loading feedback: %w", err)
	}
	return fb, nil
}

// hydrate fills in tags, the subject's acknowledgement and comments.
func (s *FeedbackService) hydrate(ctx context.Context, fb *models.Feedback) error {
	tags, err := s.repomanager.Tags(s.db).ListForFeedback(ctx, fb.ID)
	if err != nil {
		return fmt.Errorf("error loading tags: %w", err)
	}
	fb.Tags = tags

	ack, err := s.repomanager.Acknowledgements(s.db).Get(ctx, fb.ID, fb.EmployeeID)
	switch {
	case err == nil:
		fb.Acknowledgement = ack
	case errors.Is(err, common.ErrNotFound):
		fb.Acknowledgement = nil
	default:
		return fmt.Errorf("error loading acknowledgement: %w", err)
	}

	comments, err := s.repomanager.Comments(s.db).ListForFeedback(ctx, fb.ID)
	if err != nil {
		return fmt.Errorf("error loading comments: %w", err)
	}
	fb.Comments = comments
	return nil
}

func (s *FeedbackService) hydrateAll(ctx context.Context, list []*models.Feedback) error {
	for _, fb := range list {
		if err := s.hydrate(ctx, fb); err != nil {
			return err
		}
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
