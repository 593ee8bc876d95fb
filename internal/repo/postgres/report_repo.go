package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/teenmatch/internal/domain/enums"
	"github.com/ivankudzin/teenmatch/internal/domain/model"
)

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

func (r *ReportRepo) Create(ctx context.Context, reporterID, reportedUserID int64, reason string) (int64, error) {
	if reporterID == 0 || reportedUserID == 0 {
		return 0, fmt.Errorf("invalid report payload")
	}
	if strings.TrimSpace(reason) == "" {
		return 0, fmt.Errorf("report reason is required")
	}

	var id int64
	if err := r.pool.QueryRow(ctx, `
INSERT INTO reports (
	reporter_id,
	reported_user_id,
	reason,
	status,
	created_at,
	updated_at
) VALUES ($1, $2, $3, 'pending', NOW(), NOW())
RETURNING id
`, reporterID, reportedUserID, reason).Scan(&id); err != nil {
		return 0, fmt.Errorf("create report: %w", err)
	}

	return id, nil
}

func (r *ReportRepo) SetStatus(ctx context.Context, reportID int64, status enums.ReportStatus) error {
	result, err := r.pool.Exec(ctx, `
UPDATE reports
SET
	status = $2,
	updated_at = NOW()
WHERE id = $1
`, reportID, string(status))
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrReportNotFound
	}

	return nil
}

const reportViewSelect = `
SELECT
	r.id,
	r.reporter_id,
	r.reported_user_id,
	r.reason,
	r.status,
	r.created_at,
	r.updated_at,
	COALESCE(p1.name, ''),
	COALESCE(p2.name, '')
FROM reports r
LEFT JOIN profiles p1 ON p1.telegram_id = r.reporter_id
LEFT JOIN profiles p2 ON p2.telegram_id = r.reported_user_id
WHERE r.status = 'pending'
ORDER BY r.created_at ASC, r.id ASC
`

func (r *ReportRepo) ListPending(ctx context.Context, limit int) ([]model.ReportView, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, reportViewSelect+`LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending reports: %w", err)
	}
	defer rows.Close()

	items := make([]model.ReportView, 0, limit)
	for rows.Next() {
		item, err := scanReportView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate reports: %w", rows.Err())
	}

	return items, nil
}

func (r *ReportRepo) NextPending(ctx context.Context) (model.ReportView, error) {
	item, err := scanReportView(r.pool.QueryRow(ctx, reportViewSelect+`LIMIT 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ReportView{}, model.ErrReportNotFound
		}
		return model.ReportView{}, fmt.Errorf("get next pending report: %w", err)
	}

	return item, nil
}

func scanReportView(row pgx.Row) (model.ReportView, error) {
	var (
		item   model.ReportView
		status string
	)
	if err := row.Scan(
		&item.ID,
		&item.ReporterID,
		&item.ReportedUserID,
		&item.Reason,
		&status,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.ReporterName,
		&item.ReportedName,
	); err != nil {
		return model.ReportView{}, err
	}
	item.Status = enums.ReportStatus(status)
	return item, nil
}
