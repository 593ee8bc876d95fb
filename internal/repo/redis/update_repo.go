package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const updatePrefix = "tg:update:"

// UpdateRepo remembers processed Telegram update ids so redeliveries are dropped.
type UpdateRepo struct {
	client *goredis.Client
}

func NewUpdateRepo(client *goredis.Client) *UpdateRepo {
	return &UpdateRepo{client: client}
}

// Claim returns true when the caller is the first to see updateID within ttl.
func (r *UpdateRepo) Claim(ctx context.Context, updateID int64, ttl time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	ok, err := r.client.SetNX(ctx, updateKey(updateID), time.Now().UTC().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim update: %w", err)
	}

	return ok, nil
}

// Release forgets updateID so a failed delivery can be retried.
func (r *UpdateRepo) Release(ctx context.Context, updateID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, updateKey(updateID)).Err(); err != nil {
		return fmt.Errorf("release update: %w", err)
	}
	return nil
}

func updateKey(updateID int64) string {
	return updatePrefix + strconv.FormatInt(updateID, 10)
}
