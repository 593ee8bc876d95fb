package integration_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ivankudzin/teenmatch/internal/app/wiring"
	"github.com/ivankudzin/teenmatch/internal/config"
	"github.com/ivankudzin/teenmatch/internal/domain/enums"
	pgrepo "github.com/ivankudzin/teenmatch/internal/repo/postgres"
	likesvc "github.com/ivankudzin/teenmatch/internal/services/likes"
)

type nopNotifier struct{}

func (nopNotifier) SendText(context.Context, int64, string) error { return nil }

// newPostgresServices runs against TEST_POSTGRES_DSN inside a throwaway schema.
func newPostgresServices(t *testing.T) wiring.Services {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is not set")
	}
	ctx := context.Background()

	admin, err := pgrepo.NewPool(ctx, dsn, "")
	require.NoError(t, err)
	t.Cleanup(admin.Close)

	schema := "it_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = admin.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
	})

	pool, err := pgrepo.NewPool(ctx, dsn, schema)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pgrepo.Migrate(ctx, pool))

	return wiring.FromPostgres(pool, config.Default(), nopNotifier{}, zap.NewNop())
}

func submit(t *testing.T, s wiring.Services, telegramID int64, name, gender string) int64 {
	t.Helper()
	p, err := s.Profiles.Create(context.Background(), telegramID, fmt.Sprintf("user%d", telegramID),
		name+"\n16\nМосква\n"+gender+"\nО себе")
	require.NoError(t, err)
	return p.ID
}

func TestPostgresEndToEnd(t *testing.T) {
	s := newPostgresServices(t)
	ctx := context.Background()

	aliceID := submit(t, s, 100, "Алексей", "М")
	mashaID := submit(t, s, 200, "Маша", "Ж")

	pending, err := s.Moderation.PendingProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, aliceID, pending[0].ID)

	_, err = s.Moderation.Approve(ctx, aliceID)
	require.NoError(t, err)
	_, err = s.Moderation.Approve(ctx, mashaID)
	require.NoError(t, err)

	card, err := s.Feed.Next(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(200), card.TelegramID)

	res, err := s.Likes.Like(ctx, 100, 200)
	require.NoError(t, err)
	assert.Equal(t, likesvc.OutcomeLiked, res.Outcome)

	_, err = s.Feed.Next(ctx, 100)
	assert.Error(t, err)

	res, err = s.Likes.Like(ctx, 200, 100)
	require.NoError(t, err)
	assert.Equal(t, likesvc.OutcomeMatched, res.Outcome)
	assert.True(t, res.NewMatch)
	assert.Equal(t, "user100", res.Counterpart.Username)

	res, err = s.Likes.Like(ctx, 200, 100)
	require.NoError(t, err)
	assert.False(t, res.NewMatch)
	assert.Equal(t, 1, res.LikesUsed)

	matches, err := s.Likes.Matches(ctx, 100)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Маша", matches[0].Name)

	reportID, err := s.Reports.File(ctx, 100, 300, "")
	require.NoError(t, err)

	reports, err := s.Moderation.PendingReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "Алексей", reports[0].ReporterName)
	assert.Empty(t, reports[0].ReportedName)

	st, err := s.Moderation.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.Approved)
	assert.Equal(t, int64(1), st.Matches)
	assert.Equal(t, int64(1), st.PendingReports)
	assert.Equal(t, int64(2), st.LikesLast24h)

	require.NoError(t, s.Moderation.DismissReport(ctx, reportID))
	st, err = s.Moderation.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.PendingReports)
}

func TestPostgresDailyLimitWritesNothing(t *testing.T) {
	s := newPostgresServices(t)
	ctx := context.Background()

	for i := int64(0); i < 15; i++ {
		_, err := s.Likes.Like(ctx, 100, 1000+i)
		require.NoError(t, err)
	}

	_, err := s.Likes.Like(ctx, 100, 2000)
	assert.ErrorIs(t, err, likesvc.ErrDailyLimit)

	quota, err := s.Likes.Used(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 15, quota.Used)
}

func TestPostgresConcurrentOppositeLikesMatchOnce(t *testing.T) {
	s := newPostgresServices(t)
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		newMatch int
	)
	for _, pair := range [][2]int64{{100, 200}, {200, 100}} {
		wg.Add(1)
		go func(from, to int64) {
			defer wg.Done()
			res, err := s.Likes.Like(ctx, from, to)
			assert.NoError(t, err)
			if res.NewMatch {
				mu.Lock()
				newMatch++
				mu.Unlock()
			}
		}(pair[0], pair[1])
	}
	wg.Wait()

	assert.Equal(t, 1, newMatch)
}

func TestPostgresDuplicateProfileRejected(t *testing.T) {
	s := newPostgresServices(t)
	submit(t, s, 100, "Алексей", "М")

	_, err := s.Profiles.Create(context.Background(), 100, "", "Алексей\n16\nМосква\nМ")
	require.Error(t, err)

	p, err := s.Profiles.Get(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, enums.ModerationStatusPending, p.Status)
}
