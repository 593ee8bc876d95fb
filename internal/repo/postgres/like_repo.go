package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/teenmatch/internal/domain/model"
)

type LikeRepo struct {
	pool    *pgxpool.Pool
	matches *MatchRepo
}

func NewLikeRepo(pool *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{pool: pool, matches: NewMatchRepo(pool)}
}

// Record checks the quota, stores the like and reconciles the match in one
// transaction. Advisory locks on the liker and on the unordered pair keep the
// quota count and the reverse-like lookup consistent under concurrent calls.
func (r *LikeRepo) Record(ctx context.Context, req model.LikeRequest) (model.LikeOutcome, error) {
	if req.FromUserID == 0 || req.ToUserID == 0 || req.FromUserID == req.ToUserID {
		return model.LikeOutcome{}, fmt.Errorf("invalid like payload")
	}

	var out model.LikeOutcome
	err := WithTx(ctx, r.pool, likeTxOptions, func(tx pgx.Tx) error {
		if err := lockKey(ctx, tx, fmt.Sprintf("likes:user:%d", req.FromUserID)); err != nil {
			return err
		}
		a, b := model.CanonicalPair(req.FromUserID, req.ToUserID)
		if err := lockKey(ctx, tx, fmt.Sprintf("likes:pair:%d:%d", a, b)); err != nil {
			return err
		}

		used, err := r.countSince(ctx, tx, req.FromUserID, req.Since)
		if err != nil {
			return err
		}
		out.UsedBefore = used
		if req.Limit > 0 && used >= req.Limit {
			return model.ErrLikeLimit
		}

		inserted, err := r.insert(ctx, tx, req.FromUserID, req.ToUserID)
		if err != nil {
			return err
		}
		out.Inserted = inserted

		mutual, err := r.exists(ctx, tx, req.ToUserID, req.FromUserID)
		if err != nil {
			return err
		}
		out.Mutual = mutual
		if !mutual {
			return nil
		}

		created, err := r.matches.Create(ctx, tx, req.FromUserID, req.ToUserID)
		if err != nil {
			return err
		}
		out.MatchCreated = created
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrLikeLimit) {
			return out, err
		}
		return model.LikeOutcome{}, err
	}

	return out, nil
}

func (r *LikeRepo) CountSince(ctx context.Context, fromUserID int64, since time.Time) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM likes
WHERE from_user_id = $1 AND created_at > $2
`, fromUserID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes in window: %w", err)
	}
	return count, nil
}

func (r *LikeRepo) countSince(ctx context.Context, tx pgx.Tx, fromUserID int64, since time.Time) (int, error) {
	var count int
	if err := tx.QueryRow(ctx, `
SELECT COUNT(*)
FROM likes
WHERE from_user_id = $1 AND created_at > $2
`, fromUserID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes in window: %w", err)
	}
	return count, nil
}

func (r *LikeRepo) insert(ctx context.Context, tx pgx.Tx, fromUserID, toUserID int64) (bool, error) {
	tag, err := tx.Exec(ctx, `
INSERT INTO likes (
	from_user_id,
	to_user_id,
	created_at
) VALUES ($1, $2, NOW())
ON CONFLICT (from_user_id, to_user_id) DO NOTHING
`, fromUserID, toUserID)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *LikeRepo) exists(ctx context.Context, tx pgx.Tx, fromUserID, toUserID int64) (bool, error) {
	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM likes
WHERE from_user_id = $1 AND to_user_id = $2
LIMIT 1
`, fromUserID, toUserID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup like: %w", err)
	}

	return true, nil
}

func lockKey(ctx context.Context, tx pgx.Tx, key string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("acquire advisory lock: %w", err)
	}
	return nil
}
