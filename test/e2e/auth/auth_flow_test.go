package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	authhttp "github.com/keylinehq/keyline/internal/auth/http"
)

// The full credential lifecycle over HTTP: register, login, fetch the
// current user, refresh, and use the new access token.
func TestAuthFlow(t *testing.T) {
	s := setupStack(t)

	u := s.register(t)
	require.Equal(t, testEmail, u.Email)
	require.True(t, u.IsActive)

	tokens := s.login(t)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	resp := s.get(t, "/v1/auth/me", tokens.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody[authhttp.UserResponse](t, resp)
	require.Equal(t, u.ID, me.ID)

	resp = s.postJSON(t, "/v1/auth/refresh", authhttp.RefreshRequest{
		RefreshToken: tokens.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	refreshed := decodeBody[authhttp.TokenResponse](t, resp)
	require.NotEqual(t, tokens.AccessToken, refreshed.AccessToken)
	require.Empty(t, refreshed.RefreshToken)

	resp = s.get(t, "/v1/auth/me", refreshed.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// A token issued over HTTP validates over gRPC: both transports share
// one core and one signing secret.
func TestCrossTransportValidation(t *testing.T) {
	s := setupStack(t)

	u := s.register(t)
	tokens := s.login(t)

	verdict := s.validateRPC(t, tokens.AccessToken)
	require.True(t, verdict.Valid)
	require.NotNil(t, verdict.User)
	require.Equal(t, u.ID, verdict.User.ID)
	require.Equal(t, testEmail, verdict.User.Email)

	// The refresh token is rejected on both transports.
	verdict = s.validateRPC(t, tokens.RefreshToken)
	require.False(t, verdict.Valid)

	resp := s.get(t, "/v1/auth/me", tokens.RefreshToken)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Deactivating an account cuts off every live credential on every
// transport at once.
func TestDeactivationPropagates(t *testing.T) {
	s := setupStack(t)

	u := s.register(t)
	tokens := s.login(t)

	require.NoError(t, s.auth.Users.SetActive(t.Context(), u.ID, false))

	resp := s.get(t, "/v1/auth/me", tokens.AccessToken)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	verdict := s.validateRPC(t, tokens.AccessToken)
	require.False(t, verdict.Valid)

	resp = s.postJSON(t, "/v1/auth/refresh", authhttp.RefreshRequest{
		RefreshToken: tokens.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthProbes(t *testing.T) {
	s := setupStack(t)

	resp := s.get(t, "/livez", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.get(t, "/readyz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
