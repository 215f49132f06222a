package memory

import (
	"context"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/auth"
)

type refreshTokenRepository struct {
	store *Store
}

func (s *Store) RefreshTokenRepository() auth.RefreshTokenRepository {
	return &refreshTokenRepository{store: s}
}

func (r *refreshTokenRepository) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("auth.CreateRefreshToken"); err != nil {
		return err
	}
	r.store.data.refreshTokens[token] = refreshToken{userID: userID, expiresAt: time.Unix(expiresAt, 0)}
	return nil
}

func (r *refreshTokenRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("auth.IsRefreshTokenRevoked"); err != nil {
		return "", false, err
	}
	rt, ok := r.store.data.refreshTokens[token]
	if !ok {
		return "", true, nil
	}
	return rt.userID, rt.revoked || !rt.expiresAt.After(time.Now()), nil
}

func (r *refreshTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("auth.RevokeRefreshToken"); err != nil {
		return err
	}
	if rt, ok := r.store.data.refreshTokens[token]; ok {
		rt.revoked = true
		r.store.data.refreshTokens[token] = rt
	}
	return nil
}
