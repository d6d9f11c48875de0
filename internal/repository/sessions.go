package repository

import (
	"context"
	"time"

	"clubpulse/server/internal/model"
)

func (s *Store) CreateRefreshSession(ctx context.Context, session model.RefreshSession) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO refresh_sessions (id, uid, token_hash, created_at, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, session.ID, session.UID, session.TokenHash, session.CreatedAt, session.ExpiresAt, session.RevokedAt)
	return err
}

func (s *Store) GetRefreshSession(ctx context.Context, tokenHash string) (model.RefreshSession, error) {
	var session model.RefreshSession
	row := s.pool.QueryRow(ctx, `
		SELECT id, uid, token_hash, created_at, expires_at, revoked_at
		FROM refresh_sessions
		WHERE token_hash = $1
	`, tokenHash)
	err := row.Scan(&session.ID, &session.UID, &session.TokenHash,
		&session.CreatedAt, &session.ExpiresAt, &session.RevokedAt)
	return session, err
}

func (s *Store) RevokeRefreshSession(ctx context.Context, sessionID string, revokedAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE refresh_sessions SET revoked_at = $1 WHERE id = $2`, revokedAt, sessionID)
	return err
}

func (s *Store) RevokeRefreshSessionsByUID(ctx context.Context, uid string, revokedAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE refresh_sessions SET revoked_at = $1 WHERE uid = $2 AND revoked_at IS NULL
	`, revokedAt, uid)
	return err
}
