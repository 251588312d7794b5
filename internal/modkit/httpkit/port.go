// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"net/http"
	"strings"

	perrs "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
)

// Identity headers injected by the upstream gateway after it verifies
// credentials. The core never sees tokens, only the resolved identity
const (
	HeaderActorID   = "X-Actor-Id"
	HeaderActorRole = "X-Actor-Role"
)

// ActorFunc validates a raw (id, role) pair and may rewrite it.
// Callers may return the pair unchanged for a passthrough port
type ActorFunc func(actorID, role string) (string, string, error)

// Port implements middleware.AuthPort by reading the gateway identity
// headers and delegating to an ActorFunc
type Port struct {
	resolve ActorFunc
}

// NewPortFunc builds a Port from a resolver function
func NewPortFunc(fn ActorFunc) *Port {
	return &Port{resolve: fn}
}

// NewHeaderPort builds a Port that accepts the gateway headers as-is,
// restricted to the known role set
func NewHeaderPort() *Port {
	return &Port{resolve: func(id, role string) (string, string, error) {
		switch role {
		case RoleReporter, RoleModerator, RoleAdmin:
			return id, role, nil
		case "":
			return id, RoleReporter, nil
		default:
			return "", "", perrs.Unauthorizedf("unknown actor role")
		}
	}}
}

// Parse extracts the actor id and role from the identity headers
// returns unauthorized when the id header is missing or the resolver rejects it
func (p *Port) Parse(r *http.Request) (string, string, error) {
	id := strings.TrimSpace(r.Header.Get(HeaderActorID))
	if id == "" {
		return "", "", perrs.Unauthorizedf("missing actor identity")
	}
	role := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderActorRole)))

	if p.resolve == nil {
		return "", "", perrs.Unauthorizedf("invalid actor identity")
	}
	aid, arole, err := p.resolve(id, role)
	if err != nil {
		return "", "", perrs.Unauthorizedf("invalid actor identity")
	}
	return aid, arole, nil
}
