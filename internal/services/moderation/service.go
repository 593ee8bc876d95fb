package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/teenmatch/internal/domain/enums"
	"github.com/ivankudzin/teenmatch/internal/domain/model"
	"github.com/ivankudzin/teenmatch/internal/domain/rules"
	profilesvc "github.com/ivankudzin/teenmatch/internal/services/profiles"
	reportsvc "github.com/ivankudzin/teenmatch/internal/services/reports"
)

var (
	ErrQueueEmpty      = errors.New("moderation queue is empty")
	ErrNotFound        = errors.New("not found")
	ErrDependenciesNil = errors.New("moderation dependencies are not configured")
)

type ProfileQueue interface {
	ListPending(ctx context.Context, limit int) ([]model.Profile, error)
	NextPending(ctx context.Context) (model.Profile, error)
}

type ReportQueue interface {
	ListPending(ctx context.Context, limit int) ([]model.ReportView, error)
	NextPending(ctx context.Context) (model.ReportView, error)
}

type StatsStore interface {
	Snapshot(ctx context.Context, since time.Time) (model.Stats, error)
}

// Notifier delivers the decision to the profile owner.
type Notifier interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// OwnerMessages are the texts sent to a profile owner after a decision.
// An empty text skips that notification.
type OwnerMessages struct {
	Approved string
	Rejected string
}

type Dependencies struct {
	Profiles      *profilesvc.Service
	Reports       *reportsvc.Service
	ProfileQueue  ProfileQueue
	ReportQueue   ReportQueue
	Stats         StatsStore
	Notifier      Notifier
	OwnerMessages OwnerMessages
	Logger        *zap.Logger
}

type Service struct {
	profiles     *profilesvc.Service
	reports      *reportsvc.Service
	profileQueue ProfileQueue
	reportQueue  ReportQueue
	stats        StatsStore
	notifier     Notifier
	messages     OwnerMessages
	logger       *zap.Logger
	statsWindow  time.Duration
	now          func() time.Time
}

// Decision is what a moderator needs to confirm an approve/reject.
type Decision struct {
	ProfileID   int64
	OwnerUserID int64
	Name        string
	Status      enums.ModerationStatus
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		profiles:     deps.Profiles,
		reports:      deps.Reports,
		profileQueue: deps.ProfileQueue,
		reportQueue:  deps.ReportQueue,
		stats:        deps.Stats,
		notifier:     deps.Notifier,
		messages:     deps.OwnerMessages,
		logger:       logger,
		statsWindow:  rules.LikesWindow,
		now:          time.Now,
	}
}

const listLimit = 100

func (s *Service) PendingProfiles(ctx context.Context) ([]model.Profile, error) {
	if s.profileQueue == nil {
		return nil, ErrDependenciesNil
	}
	items, err := s.profileQueue.ListPending(ctx, listLimit)
	if err != nil {
		return nil, fmt.Errorf("list pending profiles: %w", err)
	}
	return items, nil
}

func (s *Service) PendingReports(ctx context.Context) ([]model.ReportView, error) {
	if s.reportQueue == nil {
		return nil, ErrDependenciesNil
	}
	items, err := s.reportQueue.ListPending(ctx, listLimit)
	if err != nil {
		return nil, fmt.Errorf("list pending reports: %w", err)
	}
	return items, nil
}

// NextPendingProfile is the oldest pending profile, recomputed on every call.
func (s *Service) NextPendingProfile(ctx context.Context) (model.Profile, error) {
	if s.profileQueue == nil {
		return model.Profile{}, ErrDependenciesNil
	}
	p, err := s.profileQueue.NextPending(ctx)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return model.Profile{}, ErrQueueEmpty
		}
		return model.Profile{}, fmt.Errorf("next pending profile: %w", err)
	}
	return p, nil
}

func (s *Service) NextPendingReport(ctx context.Context) (model.ReportView, error) {
	if s.reportQueue == nil {
		return model.ReportView{}, ErrDependenciesNil
	}
	r, err := s.reportQueue.NextPending(ctx)
	if err != nil {
		if errors.Is(err, model.ErrReportNotFound) {
			return model.ReportView{}, ErrQueueEmpty
		}
		return model.ReportView{}, fmt.Errorf("next pending report: %w", err)
	}
	return r, nil
}

func (s *Service) Approve(ctx context.Context, profileID int64) (Decision, error) {
	return s.decide(ctx, profileID, enums.ModerationStatusApproved, s.messages.Approved)
}

func (s *Service) Reject(ctx context.Context, profileID int64) (Decision, error) {
	return s.decide(ctx, profileID, enums.ModerationStatusRejected, s.messages.Rejected)
}

func (s *Service) decide(ctx context.Context, profileID int64, status enums.ModerationStatus, ownerText string) (Decision, error) {
	if s.profiles == nil {
		return Decision{}, ErrDependenciesNil
	}

	p, err := s.profiles.SetStatus(ctx, profileID, status)
	if err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			return Decision{}, ErrNotFound
		}
		return Decision{}, err
	}

	d := Decision{
		ProfileID:   p.ID,
		OwnerUserID: p.TelegramID,
		Name:        p.Name,
		Status:      p.Status,
	}

	s.notifyOwner(ctx, d, ownerText)
	return d, nil
}

// notifyOwner runs after the status is committed; failures never undo the decision.
func (s *Service) notifyOwner(ctx context.Context, d Decision, text string) {
	if s.notifier == nil || text == "" {
		return
	}
	if err := s.notifier.SendText(ctx, d.OwnerUserID, text); err != nil {
		s.logger.Warn("notify profile owner",
			zap.Int64("profile_id", d.ProfileID),
			zap.Int64("owner_id", d.OwnerUserID),
			zap.String("status", string(d.Status)),
			zap.Error(err),
		)
	}
}

func (s *Service) ResolveReport(ctx context.Context, reportID int64) error {
	return s.closeReport(ctx, reportID, enums.ReportStatusResolved)
}

func (s *Service) DismissReport(ctx context.Context, reportID int64) error {
	return s.closeReport(ctx, reportID, enums.ReportStatusDismissed)
}

func (s *Service) closeReport(ctx context.Context, reportID int64, outcome enums.ReportStatus) error {
	if s.reports == nil {
		return ErrDependenciesNil
	}
	if err := s.reports.Resolve(ctx, reportID, outcome); err != nil {
		if errors.Is(err, reportsvc.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	if s.stats == nil {
		return model.Stats{}, ErrDependenciesNil
	}
	st, err := s.stats.Snapshot(ctx, rules.WindowStart(s.now().UTC(), s.statsWindow))
	if err != nil {
		return model.Stats{}, fmt.Errorf("collect stats: %w", err)
	}
	return st, nil
}
