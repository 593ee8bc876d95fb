package likes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ivankudzin/teenmatch/internal/domain/model"
	"github.com/ivankudzin/teenmatch/internal/domain/rules"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrDailyLimit      = errors.New("daily likes limit reached")
	ErrDependenciesNil = errors.New("likes dependencies are not configured")
)

type Outcome string

const (
	OutcomeLiked   Outcome = "liked"
	OutcomeMatched Outcome = "matched"
)

type LikeStore interface {
	Record(ctx context.Context, req model.LikeRequest) (model.LikeOutcome, error)
	CountSince(ctx context.Context, fromUserID int64, since time.Time) (int, error)
}

type ProfileReader interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (model.Profile, error)
}

type MatchStore interface {
	ListProfiles(ctx context.Context, userID int64, limit int) ([]model.Profile, error)
}

type Config struct {
	LikesPerDay int
	Window      time.Duration
}

type Service struct {
	likes    LikeStore
	profiles ProfileReader
	matches  MatchStore
	cfg      Config
	now      func() time.Time
}

// Result describes a committed like. NewMatch is set only on the call that
// created the match, so match notifications go out once.
type Result struct {
	Outcome     Outcome
	NewMatch    bool
	LikesUsed   int
	Liker       model.Profile
	Counterpart model.Profile
}

func NewService(likes LikeStore, profiles ProfileReader, matches MatchStore, cfg Config) *Service {
	if cfg.LikesPerDay <= 0 {
		cfg.LikesPerDay = rules.LikesPerDay
	}
	if cfg.Window <= 0 {
		cfg.Window = rules.LikesWindow
	}
	return &Service{
		likes:    likes,
		profiles: profiles,
		matches:  matches,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *Service) Limit() int {
	return s.cfg.LikesPerDay
}

func (s *Service) Like(ctx context.Context, fromUserID, toUserID int64) (Result, error) {
	if fromUserID == 0 || toUserID == 0 || fromUserID == toUserID {
		return Result{}, ErrValidation
	}
	if s.likes == nil || s.profiles == nil {
		return Result{}, ErrDependenciesNil
	}

	out, err := s.likes.Record(ctx, model.LikeRequest{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Limit:      s.cfg.LikesPerDay,
		Since:      rules.WindowStart(s.now().UTC(), s.cfg.Window),
	})
	if err != nil {
		if errors.Is(err, model.ErrLikeLimit) {
			return Result{LikesUsed: out.UsedBefore}, ErrDailyLimit
		}
		return Result{}, fmt.Errorf("record like: %w", err)
	}

	res := Result{
		Outcome:   OutcomeLiked,
		LikesUsed: out.UsedBefore,
	}
	if out.Inserted {
		res.LikesUsed++
	}
	if !out.Mutual {
		return res, nil
	}

	res.Outcome = OutcomeMatched
	res.NewMatch = out.MatchCreated

	if res.Counterpart, err = s.lookup(ctx, toUserID); err != nil {
		return Result{}, err
	}
	if res.Liker, err = s.lookup(ctx, fromUserID); err != nil {
		return Result{}, err
	}

	return res, nil
}

// Used counts likes sent by userID inside the trailing window.
func (s *Service) Used(ctx context.Context, userID int64) (model.LikeQuota, error) {
	if userID == 0 {
		return model.LikeQuota{}, ErrValidation
	}
	if s.likes == nil {
		return model.LikeQuota{}, ErrDependenciesNil
	}

	since := rules.WindowStart(s.now().UTC(), s.cfg.Window)
	used, err := s.likes.CountSince(ctx, userID, since)
	if err != nil {
		return model.LikeQuota{}, fmt.Errorf("count likes: %w", err)
	}

	return model.LikeQuota{
		UserID:      userID,
		Limit:       s.cfg.LikesPerDay,
		Used:        used,
		WindowStart: since,
	}, nil
}

func (s *Service) Matches(ctx context.Context, userID int64) ([]model.Profile, error) {
	if userID == 0 {
		return nil, ErrValidation
	}
	if s.matches == nil {
		return nil, ErrDependenciesNil
	}

	items, err := s.matches.ListProfiles(ctx, userID, 50)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

// lookup tolerates users that liked without having a profile.
func (s *Service) lookup(ctx context.Context, telegramID int64) (model.Profile, error) {
	p, err := s.profiles.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return model.Profile{TelegramID: telegramID}, nil
		}
		return model.Profile{}, fmt.Errorf("load profile %d: %w", telegramID, err)
	}
	return p, nil
}
