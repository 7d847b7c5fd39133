package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

/* RequireAdmin protects operational endpoints with a bearer token
 * Fails closed: with no token configured the endpoints are disabled
 * entirely rather than left open
 */
func RequireAdmin(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeError(w, http.StatusForbidden, "operational endpoints are disabled: no admin token configured")
				return
			}

			presented := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid or missing admin token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
