// Package guard holds the object-level ownership check shared by every
// single-resource operation: only the owner of a project, task or entry may act on it.
package guard

import (
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/google/uuid"
)

// Ownership is decided by the matcher alone, so the enforcer carries no policy lines.
const ownershipModel = `
[request_definition]
r = sub, own

[policy_definition]
p = sub

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == r.own
`

// Owned is implemented by every resource kind that carries an owner reference.
type Owned interface {
	OwnerID() uuid.UUID
}

type Guard struct {
	enforcer *casbin.Enforcer
}

func New() (*Guard, error) {
	m, err := model.NewModelFromString(ownershipModel)
	if err != nil {
		return nil, fmt.Errorf("loading ownership model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("creating enforcer: %w", err)
	}
	return &Guard{enforcer: e}, nil
}

// MustNew is New for wiring code where a broken model is a programming error.
func MustNew() *Guard {
	g, err := New()
	if err != nil {
		panic(err)
	}
	return g
}

// Authorize reports whether user owns resource. Nil resources and nil users are never authorized.
func (g *Guard) Authorize(user uuid.UUID, resource Owned) bool {
	if resource == nil || user == uuid.Nil {
		return false
	}
	allowed, err := g.enforcer.Enforce(user.String(), resource.OwnerID().String())
	if err != nil {
		slog.Error("ownership enforcement failed", slog.String("error", err.Error()))
		return false
	}
	return allowed
}
