package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/diarify/internal/common"
	"github.com/dmitrijs2005/diarify/internal/dbx"
	"github.com/dmitrijs2005/diarify/internal/logging"
	"github.com/dmitrijs2005/diarify/internal/server/media"
	"github.com/dmitrijs2005/diarify/internal/server/models"
	"github.com/dmitrijs2005/diarify/internal/server/repositories/diaries"
	"github.com/dmitrijs2005/diarify/internal/server/repositories/repomanager"
)

const imageContentTypePrefix = "image/"

var errDiaryNotFound = newError(common.ErrorNotFound, "diary not found")

// ImageUpload is one uploaded file. Open may be called once.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type DiaryInput struct {
	Title      string
	Content    string
	CategoryID *int64
	Images     []ImageUpload
}

// DiaryService lists, reads and creates the diaries of a single creator.
type DiaryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       media.Store
	logger      logging.Logger
}

func NewDiaryService(db *sql.DB, m repomanager.RepositoryManager, store media.Store, l logging.Logger) *DiaryService {
	return &DiaryService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      l.With("module", "diary_service"),
	}
}

func (s *DiaryService) List(ctx context.Context, creatorID int64, f diaries.Filter) ([]models.Diary, error) {
	if f.CategoryID != nil && *f.CategoryID <= 0 {
		f.CategoryID = nil
	}
	f.Title = strings.TrimSpace(f.Title)

	list, err := s.repomanager.Diaries(s.db).List(ctx, creatorID, f)
	if err != nil {
		return nil, fmt.Errorf("error listing diaries: %w", err)
	}
	return list, nil
}

// Get returns a diary with its images.
func (s *DiaryService) Get(ctx context.Context, creatorID, id int64) (*models.Diary, error) {
	if id <= 0 {
		return nil, invalid("diary id is required")
	}

	repo := s.repomanager.Diaries(s.db)
	d, err := repo.GetByID(ctx, id, creatorID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errDiaryNotFound
		}
		return nil, fmt.Errorf("error loading diary: %w", err)
	}

	images, err := repo.ListImages(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading diary images: %w", err)
	}
	d.Images = images
	return d, nil
}

func validateImage(img ImageUpload) error {
	name := img.FileName
	if name == "" {
		name = "image"
	}
	if !strings.HasPrefix(strings.ToLower(img.ContentType), imageContentTypePrefix) {
		return invalid("%s: only image files are allowed", name)
	}
	if err := tooLong(
		fieldLimit{"file name", img.FileName, maxFileName},
		fieldLimit{"content type", img.ContentType, maxContentType},
	); err != nil {
		return err
	}
	if img.Size <= 0 {
		return invalid("%s is empty", name)
	}
	if img.Size > media.MaxImageSize {
		return invalid("%s exceeds the %d MiB limit", name, media.MaxImageSize>>20)
	}
	return nil
}

// Create validates the input, stores the images and then inserts the diary
// and its image rows in one transaction. Stored images are removed again when
// a later step fails.
func (s *DiaryService) Create(ctx context.Context, creatorID int64, in DiaryInput) (*models.Diary, error) {
	if err := required([2]string{"title", in.Title}, [2]string{"content", in.Content}); err != nil {
		return nil, err
	}
	if err := tooLong(fieldLimit{"title", in.Title, maxTitle}); err != nil {
		return nil, err
	}
	for _, img := range in.Images {
		if err := validateImage(img); err != nil {
			return nil, err
		}
	}

	if in.CategoryID != nil {
		if *in.CategoryID <= 0 {
			return nil, invalid("category_id must be positive")
		}
		if _, err := s.repomanager.Categories(s.db).GetByID(ctx, *in.CategoryID, creatorID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, invalid("category %d does not exist", *in.CategoryID)
			}
			return nil, fmt.Errorf("error loading category: %w", err)
		}
	}

	images := make([]models.DiaryImage, 0, len(in.Images))
	for _, img := range in.Images {
		key := media.NewDiaryKey(img.FileName, img.ContentType)
		if err := s.putImage(ctx, key, img); err != nil {
			s.cleanup(ctx, images)
			return nil, fmt.Errorf("error storing image %s: %w", img.FileName, err)
		}
		images = append(images, models.DiaryImage{
			FilePath:    key,
			FileName:    img.FileName,
			ContentType: img.ContentType,
			FileSize:    img.Size,
		})
	}

	diary := &models.Diary{
		CreatorID:  creatorID,
		CategoryID: in.CategoryID,
		Title:      strings.TrimSpace(in.Title),
		Content:    in.Content,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Diaries(tx)
		if _, err := repo.Create(ctx, diary); err != nil {
			return err
		}
		for i := range images {
			images[i].DiaryID = diary.ID
			if _, err := repo.AddImage(ctx, &images[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.cleanup(ctx, images)
		return nil, fmt.Errorf("error creating diary: %w", err)
	}

	diary.Images = images
	s.logger.Info(ctx, "diary created", "diary_id", diary.ID, "creator_id", creatorID, "images", len(images))
	return diary, nil
}

func (s *DiaryService) putImage(ctx context.Context, key string, img ImageUpload) error {
	rc, err := img.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return s.store.Put(ctx, key, img.ContentType, rc, img.Size)
}

func (s *DiaryService) cleanup(ctx context.Context, images []models.DiaryImage) {
	ctx = context.WithoutCancel(ctx)
	for _, img := range images {
		if err := s.store.Delete(ctx, img.FilePath); err != nil {
			s.logger.Warn(ctx, "failed to remove stored image", "key", img.FilePath, "error", err)
		}
	}
}
