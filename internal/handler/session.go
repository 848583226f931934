package handler

import (
	"net/http"
	"strings"

	"github.com/AlexZinkM/evm-wallet/internal/security"
)

// WithSession moves a bearer token from the Authorization header into the
// request context. Whether it is valid is decided by the operation itself.
func WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
			r = r.WithContext(security.WithSession(r.Context(), strings.TrimSpace(token)))
		}
		next.ServeHTTP(w, r)
	})
}
