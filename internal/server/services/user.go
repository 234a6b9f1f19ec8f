// Package services contains the server-side business logic. This file
// implements UserService, the mutation orchestrator behind the chat app's
// signup, signin, and invite operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/chatgraph/internal/common"
	"github.com/dmitrijs2005/chatgraph/internal/server/auth"
	"github.com/dmitrijs2005/chatgraph/internal/server/config"
	"github.com/dmitrijs2005/chatgraph/internal/server/cryptox"
	"github.com/dmitrijs2005/chatgraph/internal/server/dataloader"
	"github.com/dmitrijs2005/chatgraph/internal/server/models"
	"github.com/dmitrijs2005/chatgraph/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type CreateUserInput struct {
	Name             string
	Email            string
	Password         string
	Image            string
	ClientMutationID string
}

// CreateUserPayload wraps the created credential record and echoes the
// client-supplied correlation token unchanged.
type CreateUserPayload struct {
	User             *models.User
	ClientMutationID string
}

type LoginInput struct {
	Email            string
	Password         string
	ClientMutationID string
}

type LoginPayload struct {
	Me               *models.Person
	Token            string
	Scheme           string
	ClientMutationID string
}

type InviteFriendInput struct {
	Email            string
	ClientMutationID string
}

type InviteFriendPayload struct {
	Me               *models.Person
	ClientMutationID string
}

// UserService provides the account mutations:
// - CreateUser: create a User/Person pair
// - Login: verify credentials and mint a bearer token
// - InviteFriend: establish a symmetric friendship edge
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	now         func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		issuer:      auth.NewIssuer([]byte(cfg.SecretKey), cfg.TokenValidityDuration),
		now:         time.Now,
	}
}

// CreateUser validates the input, derives the credential hash, and persists
// the User record followed by its Person profile.
//
// The two writes are sequential, not transactional: a failed person write
// leaves the already-persisted user in place. That gap is part of the
// observable contract and is not compensated here.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*CreateUserPayload, error) {

	if input.Name == "" {
		return nil, ErrUsernameEmpty
	}
	if input.Email == "" {
		return nil, ErrEmailEmpty
	}
	if input.Password == "" {
		return nil, ErrPasswordEmpty
	}

	salt := cryptox.GenerateSalt()
	hash := cryptox.HashPassword(input.Password, salt)

	personID := uuid.NewString()

	user := &models.User{
		ID:           uuid.NewString(),
		PersonID:     personID,
		Email:        input.Email,
		PasswordHash: hash,
		Salt:         salt,
	}

	person := &models.Person{
		ID:        personID,
		UserID:    user.ID,
		Name:      input.Name,
		Email:     input.Email,
		CreatedAt: s.now().UTC(),
		Image:     input.Image,
	}

	userRepo := s.repomanager.Users(s.db)
	if _, err := userRepo.AddUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	personRepo := s.repomanager.Persons(s.db)
	if _, err := personRepo.AddPerson(ctx, person); err != nil {
		return nil, fmt.Errorf("error creating person: %w", err)
	}

	return &CreateUserPayload{User: user, ClientMutationID: input.ClientMutationID}, nil
}

// Login verifies the presented credentials, resolves the caller's Person via
// the batch loader, and issues a signed bearer token.
//
// An unknown email and a wrong password return the same error value so that
// login failures cannot be used to enumerate accounts.
func (s *UserService) Login(ctx context.Context, input LoginInput, personByEmail *dataloader.PersonLoader) (*LoginPayload, error) {

	if input.Email == "" {
		return nil, ErrEmailEmpty
	}
	if input.Password == "" {
		return nil, ErrPasswordEmpty
	}

	userRepo := s.repomanager.Users(s.db)
	user, err := userRepo.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !cryptox.VerifyPassword(input.Password, user.Salt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	me, err := personByEmail.Load(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("error loading person: %w", err)
	}

	token, scheme, err := s.issuer.IssueToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return &LoginPayload{
		Me:               me,
		Token:            token,
		Scheme:           scheme,
		ClientMutationID: input.ClientMutationID,
	}, nil
}

// InviteFriend resolves the invited person and the caller in one batched
// lookup and persists the friendship edge in both directions: the
// caller→target edge first, then target→caller. A failure between the two
// writes leaves the friendship asymmetric until the invite is repeated.
//
// currentUserEmail is the caller's authenticated identity, already verified
// by the transport layer.
func (s *UserService) InviteFriend(ctx context.Context, input InviteFriendInput, currentUserEmail string, personByEmail *dataloader.PersonLoader) (*InviteFriendPayload, error) {

	if input.Email == "" {
		return nil, ErrEmailEmpty
	}

	people, err := personByEmail.LoadAll(ctx, []string{input.Email, currentUserEmail})
	if err != nil {
		return nil, fmt.Errorf("error loading persons: %w", err)
	}

	if people[0] == nil {
		return nil, ErrEmailUnknown
	}
	if people[1] == nil {
		return nil, fmt.Errorf("error resolving current user: %w", common.ErrorNotFound)
	}

	personRepo := s.repomanager.Persons(s.db)

	if err := personRepo.AddFriendID(ctx, people[1].ID, people[0].ID); err != nil {
		return nil, fmt.Errorf("error adding friend: %w", err)
	}
	if err := personRepo.AddFriendID(ctx, people[0].ID, people[1].ID); err != nil {
		return nil, fmt.Errorf("error adding friend: %w", err)
	}

	// copy before appending: people[1] is shared with the loader cache
	me := people[1].WithFriend(people[0].ID)

	return &InviteFriendPayload{Me: me, ClientMutationID: input.ClientMutationID}, nil
}
