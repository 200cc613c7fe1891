package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	authhttp "github.com/keylinehq/keyline/internal/auth/http"
	"github.com/keylinehq/keyline/internal/auth/rpc"
	"github.com/keylinehq/keyline/internal/auth/service"
	"github.com/keylinehq/keyline/internal/auth/store/drivers/sqlite"
	"github.com/keylinehq/keyline/pkg/jwtx"
)

/*
 * End-to-end tests for the auth service. Both transports are stood up
 * in-process against one shared core and a temporary SQLite database:
 * the HTTP router behind httptest, the gRPC server behind bufconn.
 */

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	testEmail    = "alice@example.com"
	testUsername = "alice"
	testPassword = "Sup3rS3cret!"
)

// testStack is a fully wired service: REST on srv, RPC on conn.
type testStack struct {
	srv  *httptest.Server
	conn *grpc.ClientConn
	auth *service.AuthService
}

func setupStack(t *testing.T) *testStack {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "auth.db") + "?_busy_timeout=5000")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens, err := jwtx.New(jwtx.Config{
		Secret:    []byte(testSecret),
		Algorithm: "HS256",
	})
	require.NoError(t, err)

	auth := &service.AuthService{
		Users:  &service.UserService{Store: st},
		Tokens: tokens,
	}

	router := authhttp.NewRouter("e2e", st, auth, slog.Default())
	router.ApplyRoutes()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	grpcSrv := rpc.NewServer(&rpc.AuthServer{Auth: auth}, slog.Default())
	lis := bufconn.Listen(1024 * 1024)
	go func() { _ = grpcSrv.Serve(lis) }()
	t.Cleanup(grpcSrv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpc.CodecName)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testStack{srv: srv, conn: conn, auth: auth}
}

func (s *testStack) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(s.srv.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (s *testStack) get(t *testing.T, path, bearer string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.srv.URL+path, nil)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (s *testStack) register(t *testing.T) authhttp.UserResponse {
	t.Helper()
	resp := s.postJSON(t, "/v1/auth/register", authhttp.RegisterRequest{
		FirstName: "Alice",
		LastName:  "Smith",
		Username:  testUsername,
		Email:     testEmail,
		Password:  testPassword,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[authhttp.UserResponse](t, resp)
}

func (s *testStack) login(t *testing.T) authhttp.TokenResponse {
	t.Helper()
	resp := s.postJSON(t, "/v1/auth/login", authhttp.LoginRequest{
		Email:    testEmail,
		Password: testPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[authhttp.TokenResponse](t, resp)
}

func (s *testStack) validateRPC(t *testing.T, token string) *rpc.ValidateTokenResponse {
	t.Helper()
	out := new(rpc.ValidateTokenResponse)
	err := s.conn.Invoke(t.Context(), "/"+rpc.ServiceName+"/ValidateToken",
		&rpc.ValidateTokenRequest{Token: token}, out)
	require.NoError(t, err)
	return out
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}
