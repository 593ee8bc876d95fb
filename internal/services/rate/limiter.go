package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type window struct {
	prefix string
	size   time.Duration
	limit  int64
}

// Limiter throttles inbound bot updates per Telegram user over fixed windows.
// A window with a zero limit is skipped.
type Limiter struct {
	store   WindowStore
	windows []window
}

func NewLimiter(store WindowStore, perMinute, per10Sec int) *Limiter {
	l := &Limiter{store: store}
	for _, w := range []window{
		{prefix: "rate:updates:min:", size: time.Minute, limit: int64(perMinute)},
		{prefix: "rate:updates:10s:", size: 10 * time.Second, limit: int64(per10Sec)},
	} {
		if w.limit > 0 {
			l.windows = append(l.windows, w)
		}
	}
	return l
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.store != nil && len(l.windows) > 0
}

// Allow counts one update for userID in every window. When any window
// overflows it returns false and the seconds until the latest of them resets.
func (l *Limiter) Allow(ctx context.Context, userID int64) (int64, bool, error) {
	if userID <= 0 {
		return 0, false, fmt.Errorf("invalid user id")
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}

	var retryAfter int64
	for _, w := range l.windows {
		count, ttl, err := l.store.IncrementWindow(ctx, w.prefix+strconv.FormatInt(userID, 10), w.size)
		if err != nil {
			return 0, false, err
		}
		if count > w.limit {
			retryAfter = max(retryAfter, ceilSeconds(ttl))
		}
	}

	return retryAfter, retryAfter == 0, nil
}

func ceilSeconds(d time.Duration) int64 {
	sec := int64((d + time.Second - 1) / time.Second)
	return max(sec, 1)
}
