package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/feedbackportal/internal/common"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type TagService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTagService(db *sql.DB, m repomanager.RepositoryManager) *TagService {
	return &TagService{db: db, repomanager: m}
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	list, err := s.repomanager.Tags(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing tags: %w", err)
	}
	return list, nil
}

// Create adds a tag. Names are trimmed and unique ignoring case.
func (s *TagService) Create(ctx context.Context, caller *models.User, name string) (*models.Tag, error) {
	if !caller.IsManager() {
		return nil, forbidden("Only managers can create tags")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Tag name is required")
	}
	if utf8.RuneCountInString(name) > maxTagNameLen {
		return nil, invalid("Tag name is too long")
	}

	tag, err := s.repomanager.Tags(s.db).Create(ctx, &models.Tag{ID: uuid.NewString(), Name: name})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.Detail(common.ErrAlreadyExists, "Tag already exists")
		}
		return nil, fmt.Errorf("error creating tag: %w", err)
	}
	return tag, nil
}
