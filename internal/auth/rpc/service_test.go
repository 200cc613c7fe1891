package rpc_test

import (
	"context"
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/keylinehq/keyline/internal/auth/rpc"
	"github.com/keylinehq/keyline/internal/auth/service"
	"github.com/keylinehq/keyline/internal/auth/store/drivers/sqlite"
	"github.com/keylinehq/keyline/pkg/jwtx"
)

func newTestConn(t *testing.T) (*grpc.ClientConn, *service.AuthService) {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "auth.db") + "?_busy_timeout=5000")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens, err := jwtx.New(jwtx.Config{
		Secret:    []byte("0123456789abcdef0123456789abcdef"),
		Algorithm: "HS256",
	})
	require.NoError(t, err)

	auth := &service.AuthService{
		Users:  &service.UserService{Store: st},
		Tokens: tokens,
	}

	srv := rpc.NewServer(&rpc.AuthServer{Auth: auth}, slog.Default())
	lis := bufconn.Listen(1024 * 1024)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpc.CodecName)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn, auth
}

func validateToken(t *testing.T, conn *grpc.ClientConn, token string) (*rpc.ValidateTokenResponse, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := new(rpc.ValidateTokenResponse)
	err := conn.Invoke(ctx, "/"+rpc.ServiceName+"/ValidateToken",
		&rpc.ValidateTokenRequest{Token: token}, out)
	return out, err
}

func registerAndLogin(t *testing.T, auth *service.AuthService) (string, string) {
	t.Helper()
	ctx := context.Background()

	u, err := auth.Register(ctx, service.CreateUserInput{
		FirstName: "Alice",
		LastName:  "Smith",
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "pw123!",
	})
	require.NoError(t, err)

	pair, err := auth.Login(ctx, "alice@example.com", "pw123!")
	require.NoError(t, err)
	return u.ID, pair.AccessToken
}

func TestValidateToken(t *testing.T) {
	t.Run("valid token carries the owner", func(t *testing.T) {
		conn, auth := newTestConn(t)
		userID, access := registerAndLogin(t, auth)

		resp, err := validateToken(t, conn, access)
		require.NoError(t, err)
		require.True(t, resp.Valid)
		require.NotNil(t, resp.User)
		require.Equal(t, userID, resp.User.ID)
		require.Equal(t, "alice@example.com", resp.User.Email)
		require.True(t, resp.User.IsActive)
	})

	t.Run("garbage token is a negative verdict, not an error", func(t *testing.T) {
		conn, _ := newTestConn(t)

		resp, err := validateToken(t, conn, "not.a.token")
		require.NoError(t, err)
		require.False(t, resp.Valid)
		require.Nil(t, resp.User)
	})

	t.Run("expired token", func(t *testing.T) {
		conn, auth := newTestConn(t)
		userID, _ := registerAndLogin(t, auth)

		expired, err := auth.Tokens.MintWithTTL(
			jwtx.Identity{Subject: userID, Email: "alice@example.com"},
			jwtx.TokenTypeAccess, -time.Second)
		require.NoError(t, err)

		resp, err := validateToken(t, conn, expired)
		require.NoError(t, err)
		require.False(t, resp.Valid)
	})

	t.Run("refresh token is refused", func(t *testing.T) {
		conn, auth := newTestConn(t)
		registerAndLogin(t, auth)

		pair, err := auth.Login(context.Background(), "alice@example.com", "pw123!")
		require.NoError(t, err)

		resp, err := validateToken(t, conn, pair.RefreshToken)
		require.NoError(t, err)
		require.False(t, resp.Valid)
	})

	t.Run("deactivated account", func(t *testing.T) {
		conn, auth := newTestConn(t)
		userID, access := registerAndLogin(t, auth)

		require.NoError(t, auth.Users.SetActive(context.Background(), userID, false))

		resp, err := validateToken(t, conn, access)
		require.NoError(t, err)
		require.False(t, resp.Valid)
	})

	t.Run("empty token is InvalidArgument", func(t *testing.T) {
		conn, _ := newTestConn(t)

		_, err := validateToken(t, conn, "")
		require.Error(t, err)
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}
