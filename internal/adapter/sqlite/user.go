package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
)

// UserStore persists user accounts in the local database.
type UserStore struct {
	db *sql.DB
}

const userColumns = `id, email, username, password_hash, created_at, updated_at`

// Create inserts a new user. Email and username uniqueness surface as
// domain.ErrAlreadyExists.
func (s *UserStore) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	id := u.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	now := formatTime(time.Now().UTC())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		id, u.Email, u.Username, u.PasswordHash, now, now,
	)
	if err != nil {
		return nil, mapError(err, "user")
	}

	return s.GetByID(ctx, id)
}

// GetByID returns a user by primary key.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if err != nil {
		return nil, mapError(err, "user")
	}
	return u, nil
}

// GetByEmail returns a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email,
	))
	if err != nil {
		return nil, mapError(err, "user")
	}
	return u, nil
}

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u          domain.User
		createdRaw string
		updatedRaw string
	)

	err := scanner.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &createdRaw, &updatedRaw)
	if err != nil {
		return nil, err
	}

	if u.CreatedAt, err = parseTimeString(createdRaw); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if u.UpdatedAt, err = parseTimeString(updatedRaw); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &u, nil
}
