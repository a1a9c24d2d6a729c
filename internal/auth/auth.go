// Package auth carries the caller's role through a request and guards
// mutating operations.
package auth

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidRole     = errors.New("invalid role")
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleUser:
		return r, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Context is the identity an external provider vouched for.
type Context struct {
	Subject string
	Role    Role
}

func (c Context) IsAdmin() bool {
	return c.Role == RoleAdmin
}

type ctxKey struct{}

func WithContext(ctx context.Context, c Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func FromContext(ctx context.Context) (Context, bool) {
	c, ok := ctx.Value(ctxKey{}).(Context)
	return c, ok
}

// RequireAdmin returns ErrUnauthenticated when ctx carries no identity and
// ErrForbidden when the identity is not an admin.
func RequireAdmin(ctx context.Context) error {
	c, ok := FromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	if !c.IsAdmin() {
		return fmt.Errorf("%w: subject %q is %s", ErrForbidden, c.Subject, c.Role)
	}

	return nil
}
