package profiles

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ivankudzin/teenmatch/internal/domain/enums"
	"github.com/ivankudzin/teenmatch/internal/domain/model"
	"github.com/ivankudzin/teenmatch/internal/domain/rules"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrAlreadyExists = errors.New("profile already exists")
	ErrNotFound      = errors.New("profile not found")
)

const (
	maxNameLen = 64
	maxCityLen = 64
	maxBioLen  = 500
)

// ValidationError names the submission field that failed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type ProfileStore interface {
	Create(ctx context.Context, p model.Profile) (model.Profile, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (model.Profile, error)
	SetStatus(ctx context.Context, profileID int64, status enums.ModerationStatus) (model.Profile, error)
}

type Config struct {
	AgeMin              int
	AgeMax              int
	PlaceholderPhotoURL string
}

type Service struct {
	store ProfileStore
	cfg   Config
	now   func() time.Time
}

// Submission is the parsed form of a multi-line profile message.
type Submission struct {
	Name   string
	Age    int
	City   string
	Gender enums.Gender
	Bio    string
}

func NewService(store ProfileStore, cfg Config) *Service {
	if cfg.AgeMin <= 0 {
		cfg.AgeMin = rules.AgeMin
	}
	if cfg.AgeMax <= 0 {
		cfg.AgeMax = rules.AgeMax
	}
	return &Service{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (s *Service) AgeRange() (int, int) {
	return s.cfg.AgeMin, s.cfg.AgeMax
}

// Create parses raw and stores a pending profile for telegramID.
func (s *Service) Create(ctx context.Context, telegramID int64, username, raw string) (model.Profile, error) {
	if telegramID == 0 {
		return model.Profile{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	sub, err := s.Parse(raw)
	if err != nil {
		return model.Profile{}, err
	}

	created, err := s.store.Create(ctx, model.Profile{
		TelegramID: telegramID,
		Username:   strings.TrimPrefix(strings.TrimSpace(username), "@"),
		Name:       sub.Name,
		Age:        sub.Age,
		City:       sub.City,
		Gender:     sub.Gender,
		PhotoURL:   s.cfg.PlaceholderPhotoURL,
		Bio:        sub.Bio,
		Status:     enums.ModerationStatusPending,
	})
	if err != nil {
		if errors.Is(err, model.ErrProfileExists) {
			return model.Profile{}, ErrAlreadyExists
		}
		return model.Profile{}, fmt.Errorf("create profile: %w", err)
	}

	return created, nil
}

// Parse reads name, age, city, gender and an optional bio, one per line.
// Lines after the fifth are folded into the bio.
func (s *Service) Parse(raw string) (Submission, error) {
	lines := make([]string, 0, 5)
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 4 {
		return Submission{}, ValidationError{Field: "format", Reason: "expected at least 4 lines"}
	}

	sub := Submission{
		Name: lines[0],
		City: lines[2],
	}
	if utf8.RuneCountInString(sub.Name) > maxNameLen {
		return Submission{}, ValidationError{Field: "name", Reason: "too long"}
	}
	if utf8.RuneCountInString(sub.City) > maxCityLen {
		return Submission{}, ValidationError{Field: "city", Reason: "too long"}
	}

	age, err := strconv.Atoi(lines[1])
	if err != nil {
		return Submission{}, ValidationError{Field: "age", Reason: "not a number"}
	}
	if !rules.AgeAllowed(age, s.cfg.AgeMin, s.cfg.AgeMax) {
		return Submission{}, ValidationError{
			Field:  "age",
			Reason: fmt.Sprintf("must be between %d and %d", s.cfg.AgeMin, s.cfg.AgeMax),
		}
	}
	sub.Age = age

	gender, ok := enums.ParseGender(lines[3])
	if !ok {
		return Submission{}, ValidationError{Field: "gender", Reason: "unknown value"}
	}
	sub.Gender = gender

	if len(lines) > 4 {
		sub.Bio = strings.Join(lines[4:], "\n")
		if utf8.RuneCountInString(sub.Bio) > maxBioLen {
			return Submission{}, ValidationError{Field: "bio", Reason: "too long"}
		}
	}

	return sub, nil
}

func (s *Service) Get(ctx context.Context, telegramID int64) (model.Profile, error) {
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	p, err := s.store.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// SetStatus applies a moderation decision. Repeating or reversing a decision is allowed.
func (s *Service) SetStatus(ctx context.Context, profileID int64, status enums.ModerationStatus) (model.Profile, error) {
	if !status.IsDecision() {
		return model.Profile{}, fmt.Errorf("status %q: %w", status, ErrValidation)
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	p, err := s.store.SetStatus(ctx, profileID, status)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("set profile status: %w", err)
	}
	return p, nil
}
