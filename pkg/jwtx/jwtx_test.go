package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/keylinehq/keyline/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newService(t *testing.T) *jwtx.Service {
	t.Helper()
	svc, err := jwtx.New(jwtx.Config{
		Secret:    testSecret,
		Algorithm: "HS256",
	})
	require.NoError(t, err)
	return svc
}

func TestNew(t *testing.T) {
	t.Run("short secret rejected", func(t *testing.T) {
		_, err := jwtx.New(jwtx.Config{Secret: []byte("too-short"), Algorithm: "HS256"})
		require.ErrorIs(t, err, jwtx.ErrBadConfig)
	})

	t.Run("unknown algorithm rejected", func(t *testing.T) {
		_, err := jwtx.New(jwtx.Config{Secret: testSecret, Algorithm: "RS256"})
		require.ErrorIs(t, err, jwtx.ErrBadConfig)
	})

	t.Run("all HMAC variants accepted", func(t *testing.T) {
		for _, alg := range []string{"HS256", "HS384", "HS512"} {
			_, err := jwtx.New(jwtx.Config{Secret: testSecret, Algorithm: alg})
			require.NoError(t, err, alg)
		}
	})
}

func TestMintDecode(t *testing.T) {
	svc := newService(t)
	id := jwtx.Identity{Subject: "01ARZ3NDEKTSV4RRFFQ69G5FAV", Email: "alice@example.com"}

	t.Run("round trip preserves identity", func(t *testing.T) {
		raw, err := svc.Mint(id, jwtx.TokenTypeAccess)
		require.NoError(t, err)
		require.Len(t, strings.Split(raw, "."), 3)

		claims, err := svc.Decode(raw, jwtx.TokenTypeAccess)
		require.NoError(t, err)
		require.Equal(t, id, claims.Identity())
		require.Equal(t, jwtx.TokenTypeAccess, claims.TokenType)
		require.NotEmpty(t, claims.ID)
		require.NotNil(t, claims.ExpiresAt)
		require.NotNil(t, claims.IssuedAt)
	})

	t.Run("wrong expected type", func(t *testing.T) {
		raw, err := svc.Mint(id, jwtx.TokenTypeRefresh)
		require.NoError(t, err)

		_, err = svc.Decode(raw, jwtx.TokenTypeAccess)
		var mismatch *jwtx.TypeMismatchError
		require.ErrorAs(t, err, &mismatch)
		require.Equal(t, jwtx.TokenTypeAccess, mismatch.Expected)
		require.Equal(t, jwtx.TokenTypeRefresh, mismatch.Actual)
	})

	t.Run("empty expected type skips the check", func(t *testing.T) {
		raw, err := svc.Mint(id, jwtx.TokenTypeRefresh)
		require.NoError(t, err)

		claims, err := svc.Decode(raw, "")
		require.NoError(t, err)
		require.Equal(t, jwtx.TokenTypeRefresh, claims.TokenType)
	})

	t.Run("expired token", func(t *testing.T) {
		raw, err := svc.MintWithTTL(id, jwtx.TokenTypeAccess, -time.Minute)
		require.NoError(t, err)

		_, err = svc.Decode(raw, jwtx.TokenTypeAccess)
		require.ErrorIs(t, err, jwtx.ErrExpired)

		// Decoding again yields the same result; nothing mutates.
		_, err = svc.Decode(raw, jwtx.TokenTypeAccess)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("tampered token", func(t *testing.T) {
		raw, err := svc.Mint(id, jwtx.TokenTypeAccess)
		require.NoError(t, err)

		parts := strings.Split(raw, ".")
		parts[2] = strings.Repeat("A", len(parts[2]))
		_, err = svc.Decode(strings.Join(parts, "."), jwtx.TokenTypeAccess)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Decode("not.a.jwt", jwtx.TokenTypeAccess)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other, err := jwtx.New(jwtx.Config{
			Secret:    []byte("ffffffffffffffffffffffffffffffff"),
			Algorithm: "HS256",
		})
		require.NoError(t, err)

		raw, err := other.Mint(id, jwtx.TokenTypeAccess)
		require.NoError(t, err)

		_, err = svc.Decode(raw, jwtx.TokenTypeAccess)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestMintUniqueness(t *testing.T) {
	svc := newService(t)
	id := jwtx.Identity{Subject: "user-1", Email: "a@b.c"}

	t.Run("same claims same instant never collide", func(t *testing.T) {
		a, err := svc.Mint(id, jwtx.TokenTypeAccess)
		require.NoError(t, err)
		b, err := svc.Mint(id, jwtx.TokenTypeAccess)
		require.NoError(t, err)
		require.NotEqual(t, a, b)

		ca, err := svc.Decode(a, jwtx.TokenTypeAccess)
		require.NoError(t, err)
		cb, err := svc.Decode(b, jwtx.TokenTypeAccess)
		require.NoError(t, err)
		require.NotEqual(t, ca.ID, cb.ID)
	})

	t.Run("pair is byte distinct", func(t *testing.T) {
		access, refresh, err := svc.MintPair(id)
		require.NoError(t, err)
		require.NotEqual(t, access, refresh)

		ac, err := svc.Decode(access, jwtx.TokenTypeAccess)
		require.NoError(t, err)
		rc, err := svc.Decode(refresh, jwtx.TokenTypeRefresh)
		require.NoError(t, err)
		require.NotEqual(t, ac.ID, rc.ID)
	})
}

func TestPairLifetimes(t *testing.T) {
	svc, err := jwtx.New(jwtx.Config{
		Secret:     testSecret,
		Algorithm:  "HS256",
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 48 * time.Hour,
	})
	require.NoError(t, err)

	access, refresh, err := svc.MintPair(jwtx.Identity{Subject: "u", Email: "u@x.y"})
	require.NoError(t, err)

	ac, err := svc.Decode(access, jwtx.TokenTypeAccess)
	require.NoError(t, err)
	rc, err := svc.Decode(refresh, jwtx.TokenTypeRefresh)
	require.NoError(t, err)

	require.True(t, rc.ExpiresAt.After(ac.ExpiresAt.Time))
}
