package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ivankudzin/teenmatch/internal/domain/enums"
	"github.com/ivankudzin/teenmatch/internal/domain/model"
)

// DefaultReason is stored when a report arrives without its own text.
const DefaultReason = "Жалоба через бота"

const maxReasonLen = 500

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("report not found")
)

type Store interface {
	Create(ctx context.Context, reporterID, reportedUserID int64, reason string) (int64, error)
	SetStatus(ctx context.Context, reportID int64, status enums.ReportStatus) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// File records a complaint. Repeated complaints about the same user are kept as separate rows.
func (s *Service) File(ctx context.Context, reporterID, reportedUserID int64, reason string) (int64, error) {
	if reporterID == 0 || reportedUserID == 0 || reporterID == reportedUserID {
		return 0, ErrValidation
	}
	if s.store == nil {
		return 0, fmt.Errorf("report store is nil")
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultReason
	}
	if utf8.RuneCountInString(reason) > maxReasonLen {
		return 0, fmt.Errorf("reason too long: %w", ErrValidation)
	}

	id, err := s.store.Create(ctx, reporterID, reportedUserID, reason)
	if err != nil {
		return 0, fmt.Errorf("file report: %w", err)
	}
	return id, nil
}

// Resolve closes a report with outcome. The reported profile is left untouched.
func (s *Service) Resolve(ctx context.Context, reportID int64, outcome enums.ReportStatus) error {
	if reportID <= 0 || !outcome.IsOutcome() {
		return ErrValidation
	}
	if s.store == nil {
		return fmt.Errorf("report store is nil")
	}

	if err := s.store.SetStatus(ctx, reportID, outcome); err != nil {
		if errors.Is(err, model.ErrReportNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("resolve report: %w", err)
	}
	return nil
}
