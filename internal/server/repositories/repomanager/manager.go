package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/diarify/internal/dbx"
	"github.com/dmitrijs2005/diarify/internal/server/repositories/categories"
	"github.com/dmitrijs2005/diarify/internal/server/repositories/diaries"
	"github.com/dmitrijs2005/diarify/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Categories(db dbx.DBTX) categories.Repository
	Diaries(db dbx.DBTX) diaries.Repository
}
