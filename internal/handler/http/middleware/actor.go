package middleware

import (
	"context"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/auth"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// ActorFromContext builds the caller identity from verified access token claims.
func ActorFromContext(ctx context.Context) (user.Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Actor{}, auth.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Actor{}, auth.ErrInvalidToken
	}
	role, ok := claims["role"].(string)
	if !ok || !user.Role(role).IsValid() {
		return user.Actor{}, auth.ErrInvalidToken
	}

	return user.Actor{ID: userID, Role: user.Role(role)}, nil
}
