package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/chatgraph/internal/dbx"
	"github.com/dmitrijs2005/chatgraph/internal/server/repositories/persons"
	"github.com/dmitrijs2005/chatgraph/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a database
// handle and exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Persons(db dbx.DBTX) persons.Repository
}
