package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ivankudzin/teenmatch/internal/domain/model"
)

const adminSessionPrefix = "admin_sessions:"

var ErrSessionNotFound = errors.New("admin session not found")

type SessionRepo struct {
	client *goredis.Client
}

func NewSessionRepo(client *goredis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func (r *SessionRepo) Create(ctx context.Context, session model.AdminSession) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(session.ID) == "" || session.TelegramID == 0 {
		return fmt.Errorf("invalid admin session payload")
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("admin session already expired")
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, sessionKey(session.ID), map[string]interface{}{
		"telegram_id":  session.TelegramID,
		"created_at":   session.CreatedAt.Unix(),
		"expires_at":   session.ExpiresAt.Unix(),
		"last_seen_at": session.CreatedAt.Unix(),
	})
	pipe.Expire(ctx, sessionKey(session.ID), ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create admin session: %w", err)
	}

	return nil
}

// Touch verifies the session belongs to telegramID and records the access time.
func (r *SessionRepo) Touch(ctx context.Context, sid uuid.UUID, telegramID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	values, err := r.client.HGetAll(ctx, sessionKey(sid.String())).Result()
	if err != nil {
		return fmt.Errorf("get admin session: %w", err)
	}
	if len(values) == 0 {
		return ErrSessionNotFound
	}

	owner, err := strconv.ParseInt(values["telegram_id"], 10, 64)
	if err != nil || owner != telegramID {
		return ErrSessionNotFound
	}

	if err := r.client.HSet(ctx, sessionKey(sid.String()), "last_seen_at", time.Now().UTC().Unix()).Err(); err != nil {
		return fmt.Errorf("touch admin session: %w", err)
	}

	return nil
}

func (r *SessionRepo) Revoke(ctx context.Context, sid uuid.UUID) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	deleted, err := r.client.Del(ctx, sessionKey(sid.String())).Result()
	if err != nil {
		return fmt.Errorf("revoke admin session: %w", err)
	}
	if deleted == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func sessionKey(sid string) string {
	return adminSessionPrefix + sid
}
