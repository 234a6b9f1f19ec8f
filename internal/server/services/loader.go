package services

import (
	"database/sql"

	"github.com/dmitrijs2005/chatgraph/internal/server/dataloader"
	"github.com/dmitrijs2005/chatgraph/internal/server/repositories/repomanager"
)

// NewPersonByEmailLoader opens one batch window over the person repository.
// The dispatch layer should create a fresh loader per request and hand it to
// every resolver of that request.
func NewPersonByEmailLoader(db *sql.DB, m repomanager.RepositoryManager) *dataloader.PersonLoader {
	repo := m.Persons(db)
	return dataloader.NewPersonLoader(dataloader.PersonLoaderConfig{
		Fetch: repo.GetByEmails,
	})
}
