package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/diarify/internal/common"
	"github.com/dmitrijs2005/diarify/internal/dbx"
	"github.com/dmitrijs2005/diarify/internal/server/models"
	"github.com/dmitrijs2005/diarify/internal/server/repositories/pgerr"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	query :=
		`INSERT INTO categories (name, creator_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, category.Name, category.CreatorID).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return category, nil
}

func (r *PostgresRepository) ListByCreator(ctx context.Context, creatorID int64) ([]models.Category, error) {
	query :=
		`SELECT id, name, creator_id, created_at FROM categories
		 WHERE creator_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatorID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, creatorID int64) (*models.Category, error) {
	query :=
		`SELECT id, name, creator_id, created_at FROM categories
		 WHERE id = $1 AND creator_id = $2
		 `

	c := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, id, creatorID).Scan(&c.ID, &c.Name, &c.CreatorID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) UpdateName(ctx context.Context, category *models.Category) error {
	query :=
		`UPDATE categories SET name = $1
		 WHERE id = $2 AND creator_id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, category.Name, category.ID, category.CreatorID)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, creatorID int64) error {
	query :=
		`DELETE FROM categories
		 WHERE id = $1 AND creator_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, creatorID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
