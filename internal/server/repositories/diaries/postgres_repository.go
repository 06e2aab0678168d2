package diaries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/diarify/internal/common"
	"github.com/dmitrijs2005/diarify/internal/dbx"
	"github.com/dmitrijs2005/diarify/internal/server/models"
)

const diaryColumns = `id, creator_id, category_id, title, content, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, diary *models.Diary) (*models.Diary, error) {
	query :=
		`INSERT INTO diaries (creator_id, category_id, title, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, diary.CreatorID, diary.CategoryID, diary.Title, diary.Content).
		Scan(&diary.ID, &diary.CreatedAt, &diary.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return diary, nil
}

func (r *PostgresRepository) AddImage(ctx context.Context, image *models.DiaryImage) (*models.DiaryImage, error) {
	query :=
		`INSERT INTO diary_images (diary_id, file_path, file_name, content_type, file_size)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		image.DiaryID, image.FilePath, image.FileName, image.ContentType, image.FileSize).
		Scan(&image.ID, &image.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return image, nil
}

// List returns the creator's live diaries, newest first. The title filter is
// a case-insensitive substring match.
func (r *PostgresRepository) List(ctx context.Context, creatorID int64, f Filter) ([]models.Diary, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + diaryColumns + ` FROM diaries
		 WHERE creator_id = $1 AND is_deleted = FALSE`)
	args := []any{creatorID}

	if f.Title != "" {
		args = append(args, "%"+likeEscaper.Replace(f.Title)+"%")
		fmt.Fprintf(&sb, ` AND title ILIKE $%d`, len(args))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		fmt.Fprintf(&sb, ` AND category_id = $%d`, len(args))
	}
	sb.WriteString(`
		 ORDER BY created_at DESC, id DESC`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Diary, 0)
	for rows.Next() {
		var d models.Diary
		if err := scanDiary(rows, &d); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, creatorID int64) (*models.Diary, error) {
	query :=
		`SELECT ` + diaryColumns + ` FROM diaries
		 WHERE id = $1 AND creator_id = $2 AND is_deleted = FALSE
		 `

	d := &models.Diary{}
	if err := scanDiary(r.db.QueryRowContext(ctx, query, id, creatorID), d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return d, nil
}

func (r *PostgresRepository) ListImages(ctx context.Context, diaryID int64) ([]models.DiaryImage, error) {
	query :=
		`SELECT id, diary_id, file_path, file_name, content_type, file_size, created_at FROM diary_images
		 WHERE diary_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, diaryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.DiaryImage, 0)
	for rows.Next() {
		var img models.DiaryImage
		if err := rows.Scan(&img.ID, &img.DiaryID, &img.FilePath, &img.FileName,
			&img.ContentType, &img.FileSize, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDiary(s scanner, d *models.Diary) error {
	var categoryID sql.NullInt64
	if err := s.Scan(&d.ID, &d.CreatorID, &categoryID, &d.Title, &d.Content, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return err
	}
	if categoryID.Valid {
		id := categoryID.Int64
		d.CategoryID = &id
	}
	return nil
}
