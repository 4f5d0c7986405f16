package middlewarex

import (
	"net/http"

	"fullstack/internal/auth"
)

// ErrorWriter renders a failure to the client.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// RequireScope rejects requests without a valid bearer token carrying perm.
// Verified claims are stored in the request context.
func RequireScope(v *auth.Verifier, perm string, fail ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				fail(w, r, err)
				return
			}
			claims, err := v.Verify(r.Context(), raw)
			if err != nil {
				fail(w, r, err)
				return
			}
			if err := auth.CheckPermission(claims, perm); err != nil {
				fail(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
