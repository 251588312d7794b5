package middleware

import (
	"net/http"

	pnet "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net"
)

// AuthPort resolves the calling actor from a request. Credential checks
// happen upstream at the gateway; this side only trusts its identity headers
type AuthPort interface {
	// Parse returns the actor id and role from the request or an error
	Parse(r *http.Request) (actorID string, role string, err error)
}

// Auth is a no-op until wired. It uses the port when provided
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			actor, role, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithActor(r.Context(), actor, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
