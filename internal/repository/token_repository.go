package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists refresh tokens (single 'token_hash' column holding the
// SHA-256 of the raw token).
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a fresh refresh token row in the active state.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// Rotate performs single-use rotation in one transaction: it looks up the
// presented token, revokes it, and inserts the replacement row. The owning
// user's ID is returned so the caller can mint a new access token.
//
// ErrTokenNotActive is returned when the presented token is unknown,
// revoked or expired. The revoke is conditional on revoked=0, so when two
// requests race on the same token the first writer wins and the loser
// rolls back with the same error, having written nothing.
func (r *TokenRepo) Rotate(ctx context.Context, oldHash, newHash string, newExp time.Time) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		id        uint64
		userID    uint64
		expiresAt time.Time
		revoked   bool
	)
	err = tx.QueryRowContext(ctx,
		"SELECT id, user_id, expires_at, revoked FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		oldHash).Scan(&id, &userID, &expiresAt, &revoked)
	if err == sql.ErrNoRows {
		return 0, ErrTokenNotActive
	}
	if err != nil {
		return 0, err
	}
	if revoked || time.Now().UTC().After(expiresAt) {
		return 0, ErrTokenNotActive
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE id=? AND revoked=0", id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// A concurrent rotation revoked the row first.
		return 0, ErrTokenNotActive
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, newHash, newExp); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return userID, nil
}

// Revoke marks every row matching the token hash as revoked. Unknown and
// already-revoked tokens are not errors, which makes logout idempotent.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE token_hash=?", tokenHash)
	return err
}
