package actor

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
)

// Actor identifies who triggered an operation, taken from JWT claims.
type Actor struct {
	ID   string
	Name string
}

// FromContext extracts the current actor from JWT claims. A missing or
// unreadable token is not an error: transitions triggered by system jobs
// or unauthenticated callers are recorded unattributed.
func FromContext(ctx context.Context) (Actor, bool) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Actor{}, false
	}

	id, _ := claims["actor_id"].(string)
	if id == "" {
		return Actor{}, false
	}

	name, _ := claims["actor_name"].(string)
	return Actor{ID: id, Name: name}, true
}

// Label returns a human-readable actor tag for log fields.
func (a Actor) Label() string {
	if a.ID == "" {
		return "unattributed"
	}
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// IDPtr returns the actor ID as a nullable column value.
func (a Actor) IDPtr() *string {
	if a.ID == "" {
		return nil
	}
	id := a.ID
	return &id
}
