package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/roles"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/users"
)

// RepositoryManager vends identity store repositories bound to a DBTX, so
// callers can run them on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Roles(db dbx.DBTX) roles.Repository
}
