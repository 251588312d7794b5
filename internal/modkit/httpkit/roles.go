package httpkit

import (
	"net/http"

	perrs "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	pnet "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net"
)

// RequireRole is middleware that rejects requests whose context role is not
// in allowed. Mount it after Auth so the role is already on the context
func RequireRole(write func(w http.ResponseWriter, status int, body any), allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := pnet.ActorRole(r.Context())
			if _, ok := set[role]; !ok {
				err := perrs.Forbiddenf("role %q may not access this resource", role)
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
