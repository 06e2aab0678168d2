package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/diarify/internal/common"
	"github.com/dmitrijs2005/diarify/internal/server/models"
	"github.com/dmitrijs2005/diarify/internal/server/repositories/repomanager"
)

const maxCategoryName = 100

var (
	errCategoryNotFound  = newError(common.ErrorNotFound, "category not found")
	errCategoryDuplicate = newError(common.ErrorAlreadyExists, "category name already exists")
)

// CategoryService manages the categories of a single creator. Categories of
// other users are indistinguishable from missing ones.
type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCategoryService(db *sql.DB, m repomanager.RepositoryManager) *CategoryService {
	return &CategoryService{db: db, repomanager: m}
}

func validCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := required([2]string{"name", name}); err != nil {
		return "", err
	}
	if utf8.RuneCountInString(name) > maxCategoryName {
		return "", invalid("name must be at most %d characters", maxCategoryName)
	}
	return name, nil
}

func (s *CategoryService) Create(ctx context.Context, creatorID int64, name string) (*models.Category, error) {
	name, err := validCategoryName(name)
	if err != nil {
		return nil, err
	}

	c, err := s.repomanager.Categories(s.db).Create(ctx, &models.Category{Name: name, CreatorID: creatorID})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, errCategoryDuplicate
		}
		return nil, fmt.Errorf("error creating category: %w", err)
	}
	return c, nil
}

// List returns the creator's categories, newest first.
func (s *CategoryService) List(ctx context.Context, creatorID int64) ([]models.Category, error) {
	list, err := s.repomanager.Categories(s.db).ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	return list, nil
}

func (s *CategoryService) Rename(ctx context.Context, creatorID, id int64, name string) (*models.Category, error) {
	if id <= 0 {
		return nil, invalid("category id is required")
	}
	name, err := validCategoryName(name)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Categories(s.db)
	c, err := repo.GetByID(ctx, id, creatorID)
	if err != nil {
		return nil, s.mapLookup(err)
	}

	c.Name = name
	if err := repo.UpdateName(ctx, c); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, errCategoryDuplicate
		}
		return nil, s.mapLookup(err)
	}
	return c, nil
}

// Delete removes a category. Diaries in it keep existing without a category.
func (s *CategoryService) Delete(ctx context.Context, creatorID, id int64) error {
	if id <= 0 {
		return invalid("category id is required")
	}
	if err := s.repomanager.Categories(s.db).Delete(ctx, id, creatorID); err != nil {
		return s.mapLookup(err)
	}
	return nil
}

func (s *CategoryService) mapLookup(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return errCategoryNotFound
	}
	return fmt.Errorf("error accessing category: %w", err)
}
