package auth

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

// Actor is the authenticated identity a mutating operation is attributed to.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// System is used when no request identity is available.
var System = Actor{ID: "system", Role: RoleAdmin}

type actorKey struct{}

// WithActor attaches an actor to ctx, overriding any token claims.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext resolves the acting identity from an explicitly attached
// actor or from verified JWT claims.
func ActorFromContext(ctx context.Context) (Actor, error) {
	if actor, ok := ctx.Value(actorKey{}).(Actor); ok {
		return actor, nil
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil || claims == nil {
		return Actor{}, ErrActorNotInContext
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		return Actor{}, ErrActorNotInContext
	}

	return Actor{ID: userID, Role: Role(role)}, nil
}

// ActorOrSystem never fails; audit attribution falls back to System.
func ActorOrSystem(ctx context.Context) Actor {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return System
	}
	return actor
}
