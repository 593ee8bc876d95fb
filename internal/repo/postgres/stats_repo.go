package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/teenmatch/internal/domain/model"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// Snapshot counts everything in one round trip; likes are counted after since.
func (r *StatsRepo) Snapshot(ctx context.Context, since time.Time) (model.Stats, error) {
	var s model.Stats
	if err := r.pool.QueryRow(ctx, `
SELECT
	(SELECT COUNT(*) FROM profiles),
	(SELECT COUNT(*) FROM profiles WHERE status = 'approved'),
	(SELECT COUNT(*) FROM profiles WHERE status = 'pending'),
	(SELECT COUNT(*) FROM profiles WHERE status = 'rejected'),
	(SELECT COUNT(*) FROM matches),
	(SELECT COUNT(*) FROM reports WHERE status = 'pending'),
	(SELECT COUNT(*) FROM likes WHERE created_at > $1)
`, since).Scan(
		&s.TotalProfiles,
		&s.Approved,
		&s.Pending,
		&s.Rejected,
		&s.Matches,
		&s.PendingReports,
		&s.LikesLast24h,
	); err != nil {
		return model.Stats{}, fmt.Errorf("collect stats: %w", err)
	}

	return s, nil
}
