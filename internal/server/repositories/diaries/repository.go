package diaries

import (
	"context"

	"github.com/dmitrijs2005/diarify/internal/server/models"
)

// Filter narrows a diary listing. Zero values leave a criterion out.
type Filter struct {
	Title      string
	CategoryID *int64
}

type Repository interface {
	Create(ctx context.Context, diary *models.Diary) (*models.Diary, error)
	AddImage(ctx context.Context, image *models.DiaryImage) (*models.DiaryImage, error)
	List(ctx context.Context, creatorID int64, f Filter) ([]models.Diary, error)
	GetByID(ctx context.Context, id, creatorID int64) (*models.Diary, error)
	ListImages(ctx context.Context, diaryID int64) ([]models.DiaryImage, error)
}
