package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/book-exchange/pkg/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	t.Parallel()
	cfg := auth.Config{Secret: "secret", TTL: time.Hour, Issuer: "test"}
	profile := auth.Profile{UserID: uuid.New(), Username: "alice"}

	t.Run("roundtrip", func(t *testing.T) {
		t.Parallel()
		token, exp, err := auth.NewToken(cfg, profile, time.Now())
		require.NoError(t, err)
		require.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

		claims, err := auth.ParseToken(cfg, token)
		require.NoError(t, err)
		require.Equal(t, profile, claims.Profile)
		require.Equal(t, profile.UserID.String(), claims.Subject)
	})
	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		token, _, err := auth.NewToken(cfg, profile, time.Now().Add(-2*time.Hour))
		require.NoError(t, err)

		_, err = auth.ParseToken(cfg, token)
		require.ErrorIs(t, err, auth.ErrExpiredToken)
	})
	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		token, _, err := auth.NewToken(auth.Config{Secret: "other", TTL: time.Hour, Issuer: "test"}, profile, time.Now())
		require.NoError(t, err)

		_, err = auth.ParseToken(cfg, token)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})
	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		_, err := auth.ParseToken(cfg, "not-a-token")
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestAuthContext(t *testing.T) {
	t.Parallel()
	_, err := auth.GetUserID(context.Background())
	require.ErrorIs(t, err, auth.ErrNoIdentity)

	id := uuid.New()
	ctx := auth.SetAuthContext(context.Background(), auth.Profile{UserID: id, Username: "bob"})
	got, err := auth.GetUserID(ctx)
	require.NoError(t, err)
	require.Equal(t, id, got)
}
