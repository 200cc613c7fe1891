package http

import (
	"net/http"

	"github.com/keylinehq/keyline/pkg/httpx"
)

// MeHandler serves GET /v1/auth/me for the authenticated user.
type MeHandler struct{}

// ServeHTTP godoc
//
//	@Summary		Current user
//	@Description	Returns the directory record of the user that owns the presented access token.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	UserResponse	"the authenticated user"
//	@Failure		401	{object}	ErrorResponse	"missing, invalid or expired token"
//	@Router			/v1/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		// AuthnMiddleware installs the user; reaching here without one is
		// a routing mistake, not a client error.
		writeError(w, http.StatusInternalServerError, "server_error", "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}
