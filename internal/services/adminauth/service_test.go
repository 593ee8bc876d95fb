package adminauth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisrepo "github.com/ivankudzin/teenmatch/internal/repo/redis"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := NewService(Config{
		JWTSecret:   "test-secret",
		SessionTTL:  time.Hour,
		ModeratorID: 42,
	}, redisrepo.NewSessionRepo(client))
	return svc, mr
}

func TestIssueAndValidate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, issued, err := svc.Issue(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.TelegramID)
	assert.Equal(t, issued.SID, claims.SID)
}

func TestIssueRefusesNonModerator(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Issue(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotModerator)
}

func TestValidateRejectsGarbageAndForeignSignature(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ValidateAccessToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		TelegramID: 42,
		SID:        "00000000-0000-0000-0000-000000000000",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(ctx, signed)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRevokedSessionIsRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, _, err := svc.Issue(ctx, 42)
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(ctx, token))

	_, err = svc.ValidateAccessToken(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestUnconfiguredServiceFailsClosed(t *testing.T) {
	svc := NewService(Config{ModeratorID: 42}, nil)

	_, err := svc.ValidateAccessToken(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrUnavailable)
}
