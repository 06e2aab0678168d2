package categories

import (
	"context"

	"github.com/dmitrijs2005/diarify/internal/server/models"
)

// Repository scopes every lookup by creator, so a category owned by another
// user behaves as missing.
type Repository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	ListByCreator(ctx context.Context, creatorID int64) ([]models.Category, error)
	GetByID(ctx context.Context, id, creatorID int64) (*models.Category, error)
	UpdateName(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id, creatorID int64) error
}
