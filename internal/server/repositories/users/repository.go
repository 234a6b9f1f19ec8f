package users

import (
	"context"

	"github.com/dmitrijs2005/chatgraph/internal/server/models"
)

type Repository interface {
	AddUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
