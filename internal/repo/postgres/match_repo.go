package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/teenmatch/internal/domain/model"
)

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// Create inserts the canonical pair and reports whether this call created it.
func (r *MatchRepo) Create(ctx context.Context, tx pgx.Tx, userID, targetID int64) (bool, error) {
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	user1, user2 := model.CanonicalPair(userID, targetID)

	var matchID int64
	err := tx.QueryRow(ctx, `
INSERT INTO matches (
	user1_id,
	user2_id,
	created_at
) VALUES ($1, $2, NOW())
ON CONFLICT (user1_id, user2_id) DO NOTHING
RETURNING id
`, user1, user2).Scan(&matchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("create match: %w", err)
	}

	return matchID > 0, nil
}

// ListProfiles returns the counterparts of the user's matches, newest match first.
func (r *MatchRepo) ListProfiles(ctx context.Context, userID int64, limit int) ([]model.Profile, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+profileColumnsP+`
FROM matches m
JOIN profiles p ON p.telegram_id = CASE WHEN m.user1_id = $1 THEN m.user2_id ELSE m.user1_id END
WHERE m.user1_id = $1 OR m.user2_id = $1
ORDER BY m.created_at DESC, m.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	return collectProfiles(rows, limit)
}
