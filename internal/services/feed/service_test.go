package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivankudzin/teenmatch/internal/domain/enums"
	"github.com/ivankudzin/teenmatch/internal/domain/model"
	"github.com/ivankudzin/teenmatch/internal/repo/memory"
)

func seed(t *testing.T, store *memory.Store, telegramID int64, status enums.ModerationStatus) model.Profile {
	t.Helper()
	ctx := context.Background()

	p, err := store.Profiles().Create(ctx, model.Profile{
		TelegramID: telegramID,
		Name:       "user",
		Age:        16,
		City:       "Москва",
		Gender:     enums.GenderFemale,
	})
	require.NoError(t, err)
	if status != enums.ModerationStatusPending {
		p, err = store.Profiles().SetStatus(ctx, p.ID, status)
		require.NoError(t, err)
	}
	return p
}

func TestNextReturnsOnlyEligibleCandidates(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, 1, enums.ModerationStatusApproved)
	seed(t, store, 2, enums.ModerationStatusApproved)
	seed(t, store, 3, enums.ModerationStatusApproved)
	seed(t, store, 4, enums.ModerationStatusPending)
	seed(t, store, 5, enums.ModerationStatusRejected)

	_, err := store.Likes().Record(context.Background(), model.LikeRequest{
		FromUserID: 1,
		ToUserID:   2,
		Limit:      15,
		Since:      time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	svc := NewService(store.Feed())
	for i := 0; i < 50; i++ {
		p, err := svc.Next(context.Background(), 1)
		require.NoError(t, err)
		assert.Contains(t, []int64{3}, p.TelegramID)
	}
}

func TestNextIgnoresIncomingLikes(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, 1, enums.ModerationStatusApproved)
	seed(t, store, 2, enums.ModerationStatusApproved)

	_, err := store.Likes().Record(context.Background(), model.LikeRequest{
		FromUserID: 2,
		ToUserID:   1,
		Limit:      15,
		Since:      time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	p, err := NewService(store.Feed()).Next(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.TelegramID)
}

func TestNextWithoutCandidates(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, 1, enums.ModerationStatusApproved)

	_, err := NewService(store.Feed()).Next(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestNextWorksForViewerWithoutProfile(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, 2, enums.ModerationStatusApproved)

	p, err := NewService(store.Feed()).Next(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.TelegramID)
}
