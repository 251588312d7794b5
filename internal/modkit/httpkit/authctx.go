package httpkit

import (
	"net/http"

	perrs "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	pnet "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net"
)

// Actor roles the registry knows about. Credential checks happen at the
// gateway; this side only interprets the role it is handed
const (
	RoleReporter  = "reporter"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Actor returns the authenticated actor id from the request context
func Actor(r *http.Request) (string, error) {
	aid := pnet.ActorID(r.Context())
	if aid == "" {
		return "", perrs.Unauthorizedf("missing actor identity")
	}
	return aid, nil
}

// Role returns the actor role from the request context, empty when anonymous
func Role(r *http.Request) string {
	return pnet.ActorRole(r.Context())
}

// MustActor returns the authenticated actor id or panics
// only use on routes protected by the auth middleware
func MustActor(r *http.Request) string {
	aid, err := Actor(r)
	if err != nil {
		panic(err)
	}
	return aid
}

// IsModerator reports whether the actor may act on the moderation surface
func IsModerator(r *http.Request) bool {
	role := Role(r)
	return role == RoleModerator || role == RoleAdmin
}

// IsAdmin reports whether the actor carries the admin role
func IsAdmin(r *http.Request) bool { return Role(r) == RoleAdmin }

// RequireModerator returns the actor id when the role is moderator or admin,
// otherwise a forbidden error for the handler to surface
func RequireModerator(r *http.Request) (string, error) {
	aid, err := Actor(r)
	if err != nil {
		return "", err
	}
	if !IsModerator(r) {
		return "", perrs.Forbiddenf("moderator role required")
	}
	return aid, nil
}
