package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/teenmatch/internal/domain/enums"
	"github.com/ivankudzin/teenmatch/internal/domain/model"
)

const profileColumns = `
	id,
	telegram_id,
	COALESCE(username, ''),
	name,
	age,
	city,
	gender,
	photo_url,
	bio,
	status,
	created_at,
	updated_at`

const profileColumnsP = `
	p.id,
	p.telegram_id,
	COALESCE(p.username, ''),
	p.name,
	p.age,
	p.city,
	p.gender,
	p.photo_url,
	p.bio,
	p.status,
	p.created_at,
	p.updated_at`

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Create(ctx context.Context, p model.Profile) (model.Profile, error) {
	if p.TelegramID == 0 {
		return model.Profile{}, fmt.Errorf("invalid profile payload")
	}
	if p.Status == "" {
		p.Status = enums.ModerationStatusPending
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO profiles (
	telegram_id,
	username,
	name,
	age,
	city,
	gender,
	photo_url,
	bio,
	status,
	created_at,
	updated_at
) VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
RETURNING`+profileColumns,
		p.TelegramID,
		p.Username,
		p.Name,
		p.Age,
		p.City,
		string(p.Gender),
		p.PhotoURL,
		p.Bio,
		string(p.Status),
	)

	created, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.Profile{}, model.ErrProfileExists
		}
		return model.Profile{}, fmt.Errorf("insert profile: %w", err)
	}

	return created, nil
}

func (r *ProfileRepo) GetByTelegramID(ctx context.Context, telegramID int64) (model.Profile, error) {
	row := r.pool.QueryRow(ctx, `
SELECT`+profileColumns+`
FROM profiles
WHERE telegram_id = $1
`, telegramID)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return p, nil
}

// SetStatus moves a profile to status unconditionally and returns the updated row.
func (r *ProfileRepo) SetStatus(ctx context.Context, profileID int64, status enums.ModerationStatus) (model.Profile, error) {
	if profileID <= 0 {
		return model.Profile{}, model.ErrProfileNotFound
	}

	row := r.pool.QueryRow(ctx, `
UPDATE profiles
SET
	status = $2,
	updated_at = NOW()
WHERE id = $1
RETURNING`+profileColumns,
		profileID,
		string(status),
	)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("update profile status: %w", err)
	}

	return p, nil
}

func (r *ProfileRepo) ListPending(ctx context.Context, limit int) ([]model.Profile, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+profileColumns+`
FROM profiles
WHERE status = 'pending'
ORDER BY created_at ASC, id ASC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending profiles: %w", err)
	}
	defer rows.Close()

	return collectProfiles(rows, limit)
}

func (r *ProfileRepo) NextPending(ctx context.Context) (model.Profile, error) {
	row := r.pool.QueryRow(ctx, `
SELECT`+profileColumns+`
FROM profiles
WHERE status = 'pending'
ORDER BY created_at ASC, id ASC
LIMIT 1
`)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get next pending profile: %w", err)
	}

	return p, nil
}

func collectProfiles(rows pgx.Rows, capacity int) ([]model.Profile, error) {
	items := make([]model.Profile, 0, capacity)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		items = append(items, p)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate profiles: %w", rows.Err())
	}

	return items, nil
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var (
		p      model.Profile
		gender string
		status string
	)
	if err := row.Scan(
		&p.ID,
		&p.TelegramID,
		&p.Username,
		&p.Name,
		&p.Age,
		&p.City,
		&gender,
		&p.PhotoURL,
		&p.Bio,
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return model.Profile{}, err
	}
	p.Gender = enums.Gender(gender)
	p.Status = enums.ModerationStatus(status)
	return p, nil
}
