package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PgRepository implements UserRepository using PostgreSQL as the data store.
type PgRepository struct {
	db *pgxpool.Pool
}

// NewPgRepository creates a new instance of UserRepository using a PostgreSQL connection pool.
func NewPgRepository(dbp *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: dbp}
}

// Seed inserts DemoUser unless a user with its email already exists.
func (p *PgRepository) Seed(ctx context.Context) error {
	hash, err := HashPassword(DemoPassword)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING`,
		DemoUser.ID, DemoUser.Name, DemoUser.Email, hash)
	if err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}
	return nil
}

func (p *PgRepository) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var user User
	var hash string
	err := p.db.QueryRow(ctx, `
		SELECT id, name, email, COALESCE(avatar, ''), password_hash
		FROM users WHERE email = $1`, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.Avatar, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	match, err := VerifyPassword(password, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password for %s: %w", email, err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (p *PgRepository) Create(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := User{ID: uuid.NewString(), Name: name, Email: email}
	_, err = p.db.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)`,
		user.ID, user.Name, user.Email, hash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}
