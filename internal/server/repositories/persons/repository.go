package persons

import (
	"context"

	"github.com/dmitrijs2005/chatgraph/internal/server/models"
)

type Repository interface {
	AddPerson(ctx context.Context, person *models.Person) (*models.Person, error)

	// AddFriendID records a directed friend edge. Adding an existing edge is
	// a no-op, but the call still reaches storage.
	AddFriendID(ctx context.Context, personID string, friendID string) error

	// GetByEmails resolves many persons in one round trip. The result is
	// aligned positionally with emails; an email without a match yields nil
	// at its position.
	GetByEmails(ctx context.Context, emails []string) ([]*models.Person, error)

	GetByID(ctx context.Context, id string) (*models.Person, error)
	SelectAll(ctx context.Context) ([]*models.Person, error)
	UpdateImage(ctx context.Context, personID string, image string) error
}
