package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/tallyhq/tally/internal/repository"
)

// APIKeyRepository stores hashed bearer tokens and resolves them back to the
// acting user. Raw tokens are never persisted.
type APIKeyRepository struct {
	q querier
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{q: db.DB}
}

// CreateKey stores the hash of token for userID.
func (r *APIKeyRepository) CreateKey(ctx context.Context, token, userID, description string) error {
	query := `
		INSERT INTO api_keys (key_hash, user_id, description, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.q.ExecContext(ctx, query, hashToken(token), userID, description, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// ResolveUser returns the user id for a bearer token and touches last_used.
func (r *APIKeyRepository) ResolveUser(ctx context.Context, token string) (string, error) {
	hash := hashToken(token)

	var userID string
	err := r.q.QueryRowContext(ctx, `SELECT user_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	_, _ = r.q.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now(), hash)
	return userID, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
