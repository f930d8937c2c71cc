package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
)

// TokenStore persists refresh tokens in the local database.
type TokenStore struct {
	db *sql.DB
}

// Create inserts a new refresh token.
func (s *TokenStore) Create(ctx context.Context, token *domain.RefreshToken) error {
	id := token.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, token.UserID, token.TokenHash,
		formatTime(token.ExpiresAt), formatTime(time.Now().UTC()),
	)
	if err != nil {
		return mapError(err, "refresh_token")
	}
	return nil
}

// GetByHash returns an active (non-revoked, non-expired) refresh token by its
// hash. Returns domain.ErrNotFound otherwise.
func (s *TokenStore) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	var (
		t          domain.RefreshToken
		expiresRaw string
		createdRaw string
		revokedRaw sql.NullString
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, created_at, revoked_at
		FROM refresh_tokens
		WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > ?`,
		tokenHash, formatTime(time.Now().UTC()),
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &expiresRaw, &createdRaw, &revokedRaw)
	if err != nil {
		return nil, mapError(err, "refresh_token")
	}

	if t.ExpiresAt, err = parseTimeString(expiresRaw); err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}
	if t.CreatedAt, err = parseTimeString(createdRaw); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if revokedRaw.Valid {
		revoked, err := parseTimeString(revokedRaw.String)
		if err != nil {
			return nil, fmt.Errorf("parse revoked_at: %w", err)
		}
		t.RevokedAt = &revoked
	}

	return &t, nil
}

// RevokeByID revokes a specific refresh token. Idempotent.
func (s *TokenStore) RevokeByID(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		formatTime(time.Now().UTC()), id,
	)
	if err != nil {
		return mapError(err, "refresh_token")
	}
	return nil
}

// RevokeAllByUser revokes all active refresh tokens for the given user.
func (s *TokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`,
		formatTime(time.Now().UTC()), userID,
	)
	if err != nil {
		return mapError(err, "refresh_token")
	}
	return nil
}

// DeleteExpired removes all expired or revoked tokens.
// Returns the count of deleted tokens.
func (s *TokenStore) DeleteExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at <= ? OR revoked_at IS NOT NULL`,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		return 0, mapError(err, "refresh_token")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return int(affected), nil
}
