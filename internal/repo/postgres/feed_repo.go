package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/teenmatch/internal/domain/model"
)

type FeedRepo struct {
	pool *pgxpool.Pool
}

func NewFeedRepo(pool *pgxpool.Pool) *FeedRepo {
	return &FeedRepo{pool: pool}
}

// NextCandidate picks a uniformly random approved profile the viewer has not liked yet.
func (r *FeedRepo) NextCandidate(ctx context.Context, viewerID int64) (model.Profile, error) {
	row := r.pool.QueryRow(ctx, `
SELECT`+profileColumnsP+`
FROM profiles p
WHERE
	p.status = 'approved'
	AND p.telegram_id <> $1
	AND NOT EXISTS (
		SELECT 1
		FROM likes l
		WHERE l.from_user_id = $1
			AND l.to_user_id = p.telegram_id
	)
ORDER BY random()
LIMIT 1
`, viewerID)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNoCandidates
		}
		return model.Profile{}, fmt.Errorf("select feed candidate: %w", err)
	}

	return p, nil
}
