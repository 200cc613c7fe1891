package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/keylinehq/keyline/internal/auth/service"
	"github.com/keylinehq/keyline/pkg/httpx"
)

// AuthHandler serves the credential endpoints: register, login and
// refresh.
type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRegister godoc
//
//	@Summary		Register a new user
//	@Description	Creates a directory record for the given email and username. Both must be unused; the password is stored only as a bcrypt hash.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RegisterRequest	true	"Registration fields"
//	@Success		201		{object}	UserResponse	"the created user, without credentials"
//	@Failure		400		{object}	ErrorResponse	"error, error_description"
//	@Failure		409		{object}	ErrorResponse	"email or username already taken"
//	@Failure		500		{object}	ErrorResponse	"error, error_description"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	if strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Username) == "" ||
		req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request",
			"email, username and password are required")
		return
	}

	user, err := h.AuthService.Register(r.Context(), service.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, userResponse(user))
}

// HandleLogin godoc
//
//	@Summary		Authenticate with email and password
//	@Description	Verifies the password and issues an access + refresh token pair. Unknown email, wrong password and deactivated accounts all fail identically.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	TokenResponse	"access_token, refresh_token, token_type"
//	@Failure		400		{object}	ErrorResponse	"error, error_description"
//	@Failure		401		{object}	ErrorResponse	"invalid credentials"
//	@Failure		500		{object}	ErrorResponse	"error, error_description"
//	@Header			200		{string}	Cache-Control	"no-store"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request",
			"email and password are required")
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

// HandleRefresh godoc
//
//	@Summary		Exchange a refresh token for a new access token
//	@Description	Mints a fresh access token from a valid refresh token. The refresh token is not rotated and stays valid until it expires.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	TokenResponse	"access_token, token_type"
//	@Failure		400		{object}	ErrorResponse	"error, error_description"
//	@Failure		401		{object}	ErrorResponse	"invalid, expired or wrong-type token"
//	@Failure		500		{object}	ErrorResponse	"error, error_description"
//	@Header			200		{string}	Cache-Control	"no-store"
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "refresh_token is required")
		return
	}

	access, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
	})
}
