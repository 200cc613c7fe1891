package http

import (
	"errors"
	"net/http"

	"github.com/keylinehq/keyline/internal/auth/service"
	"github.com/keylinehq/keyline/pkg/httpx"
	"github.com/keylinehq/keyline/pkg/slogx"
)

func writeError(w http.ResponseWriter, code int, errCode, desc string) {
	httpx.WriteJSON(w, code, ErrorResponse{Error: errCode, Description: desc})
}

// writeServiceError maps the service failure set onto HTTP statuses.
// Anything outside the set is a server fault: logged, reported as 500
// without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var mismatch *service.InvalidTokenTypeError
	switch {
	case errors.Is(err, service.ErrUserAlreadyExists):
		writeError(w, http.StatusConflict, "user_already_exists",
			"a user with that email or username already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials",
			"invalid credentials")
	case errors.Is(err, service.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "token_expired",
			"token has expired")
	case errors.As(err, &mismatch):
		writeError(w, http.StatusUnauthorized, "invalid_token_type", mismatch.Error())
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid_token",
			"token is invalid")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error",
			"internal server error")
	}
}
