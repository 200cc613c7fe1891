package http

import (
	"context"
	"net/http"

	"github.com/keylinehq/keyline/internal/auth/domain"
	"github.com/keylinehq/keyline/internal/auth/service"
	"github.com/keylinehq/keyline/pkg/httpx"
)

type userKey struct{}

// UserFromContext returns the authenticated user installed by
// AuthnMiddleware.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userKey{}).(domain.User)
	return u, ok
}

// AuthnMiddleware authenticates requests via the Authorization bearer
// header. All token checking goes through AuthService.Resolve; this
// layer only extracts the header and translates failures into RFC 6750
// challenge responses.
func AuthnMiddleware(auth *service.AuthService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := httpx.BearerToken(r)
			if !ok {
				httpx.WriteBearerError(w, "missing bearer token")
				return
			}

			user, err := auth.Resolve(r.Context(), raw)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), userKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
