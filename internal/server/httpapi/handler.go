// Package httpapi exposes the Diarify REST API with gin. Every response is a
// JSON envelope: {"message", "data"} on success and {"error"} on failure.
package httpapi

import (
	"context"

	"github.com/dmitrijs2005/diarify/internal/logging"
	"github.com/dmitrijs2005/diarify/internal/server/models"
	"github.com/dmitrijs2005/diarify/internal/server/repositories/diaries"
	"github.com/dmitrijs2005/diarify/internal/server/services"
)

type UserService interface {
	Authenticator
	SignUp(ctx context.Context, in services.SignUpInput) (*models.User, error)
	SignIn(ctx context.Context, username, password string) (*services.SignInResult, error)
	SignOut(ctx context.Context, userID int64) error
	Profile(ctx context.Context, userID int64) (*models.User, error)
}

type CategoryService interface {
	Create(ctx context.Context, creatorID int64, name string) (*models.Category, error)
	List(ctx context.Context, creatorID int64) ([]models.Category, error)
	Rename(ctx context.Context, creatorID, id int64, name string) (*models.Category, error)
	Delete(ctx context.Context, creatorID, id int64) error
}

type DiaryService interface {
	List(ctx context.Context, creatorID int64, f diaries.Filter) ([]models.Diary, error)
	Get(ctx context.Context, creatorID, id int64) (*models.Diary, error)
	Create(ctx context.Context, creatorID int64, in services.DiaryInput) (*models.Diary, error)
}

type Handler struct {
	users      UserService
	categories CategoryService
	diaries    DiaryService
	logger     logging.Logger
}

func NewHandler(us UserService, cs CategoryService, ds DiaryService, l logging.Logger) *Handler {
	return &Handler{
		users:      us,
		categories: cs,
		diaries:    ds,
		logger:     l.With("module", "http_api"),
	}
}
