package authz

import (
	"context"
	"errors"

	"github.com/heiderrevelo333/pasion-deportiva/internal/store"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// AuthUser is the verified caller identity established by the auth
// middleware. Handlers and the booking service receive it through the
// request context instead of looking up a global current user.
type AuthUser struct {
	ID   int64
	Role string
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value
// has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// IsAdministrator reports whether the given AuthUser holds the
// administrator role.
func IsAdministrator(user *AuthUser) bool {
	return user != nil && user.Role == store.RoleAdministrator
}

// RequireRole returns ErrUnauthenticated when no caller identity is present
// and ErrForbidden when the caller's role is not among the given roles.
func RequireRole(ctx context.Context, roles ...string) error {
	user := UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}
	for _, role := range roles {
		if user.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// RequireUser returns the caller identity or ErrUnauthenticated.
func RequireUser(ctx context.Context) (*AuthUser, error) {
	user := UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}
