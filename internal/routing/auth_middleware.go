package routing

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pelyams/car_catalog_service/internal/auth"
	"github.com/pelyams/car_catalog_service/internal/domain"
)

type Authenticator interface {
	Authenticate(header string) (*auth.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's identity in the request context otherwise.
func RequireAuth(a Authenticator, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := a.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			domain.ErrorContainerFrom(r.Context()).Add(fmt.Errorf("%w: %w", domain.ErrUnauthorized, err))
			w.Header().Set("WWW-Authenticate", `Bearer realm="catalog"`)
			msg := "Invalid authentication token"
			if errors.Is(err, auth.ErrMissingCredentials) {
				msg = "Authentication credentials were not provided"
			}
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msg})
			return
		}
		next(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	}
}
