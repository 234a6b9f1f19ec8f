package persons

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/chatgraph/internal/common"
	"github.com/dmitrijs2005/chatgraph/internal/dbx"
	"github.com/dmitrijs2005/chatgraph/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) AddPerson(ctx context.Context, person *models.Person) (*models.Person, error) {

	query :=
		`INSERT INTO persons (id, user_id, name, email, created_at, image)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query,
		person.ID, person.UserID, person.Name, person.Email, person.CreatedAt, person.Image)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return person, nil
}

func (r *PostgresRepository) AddFriendID(ctx context.Context, personID string, friendID string) error {

	query :=
		`INSERT INTO person_friends (person_id, friend_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, personID, friendID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByEmails(ctx context.Context, emails []string) ([]*models.Person, error) {

	result := make([]*models.Person, len(emails))
	if len(emails) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(
		`SELECT id, user_id, name, email, created_at, image FROM persons
		 WHERE email IN (%s)
		 `, placeholders(len(emails)))

	rows, err := r.db.QueryContext(ctx, query, toAnySlice(emails)...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	byEmail := map[string]*models.Person{}
	for rows.Next() {
		p := &models.Person{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Email, &p.CreatedAt, &p.Image); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		byEmail[p.Email] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	found := make([]*models.Person, 0, len(byEmail))
	for _, p := range byEmail {
		found = append(found, p)
	}
	if err := r.attachFriends(ctx, found); err != nil {
		return nil, err
	}

	// fan the found persons back out to every requested position
	for i, email := range emails {
		result[i] = byEmail[email]
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Person, error) {
	query :=
		`SELECT id, user_id, name, email, created_at, image FROM persons
		 WHERE id = $1
		 `

	p := &models.Person{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Email, &p.CreatedAt, &p.Image)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.attachFriends(ctx, []*models.Person{p}); err != nil {
		return nil, err
	}

	return p, nil
}

func (r *PostgresRepository) SelectAll(ctx context.Context) ([]*models.Person, error) {
	query :=
		`SELECT id, user_id, name, email, created_at, image FROM persons
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Person
	for rows.Next() {
		p := &models.Person{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Email, &p.CreatedAt, &p.Image); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.attachFriends(ctx, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) UpdateImage(ctx context.Context, personID string, image string) error {
	query :=
		`UPDATE persons SET image = $2
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, personID, image); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// attachFriends fills FriendIDs for the given persons in one query.
func (r *PostgresRepository) attachFriends(ctx context.Context, persons []*models.Person) error {
	if len(persons) == 0 {
		return nil
	}

	ids := make([]string, len(persons))
	byID := make(map[string]*models.Person, len(persons))
	for i, p := range persons {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	query := fmt.Sprintf(
		`SELECT person_id, friend_id FROM person_friends
		 WHERE person_id IN (%s)
		 `, placeholders(len(ids)))

	rows, err := r.db.QueryContext(ctx, query, toAnySlice(ids)...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var personID, friendID string
		if err := rows.Scan(&personID, &friendID); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if p, ok := byID[personID]; ok {
			p.FriendIDs = append(p.FriendIDs, friendID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ps, ", ")
}

func toAnySlice(ss []string) []any {
	args := make([]any, len(ss))
	for i, s := range ss {
		args[i] = s
	}
	return args
}
