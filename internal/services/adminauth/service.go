package adminauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ivankudzin/teenmatch/internal/domain/model"
	redisrepo "github.com/ivankudzin/teenmatch/internal/repo/redis"
)

const issuer = "teenmatch-admin"

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired")
	ErrUnavailable    = errors.New("admin auth is unavailable")
	ErrNotModerator   = errors.New("user is not a moderator")
)

type SessionStore interface {
	Create(ctx context.Context, session model.AdminSession) error
	Touch(ctx context.Context, sid uuid.UUID, telegramID int64) error
	Revoke(ctx context.Context, sid uuid.UUID) error
}

type Config struct {
	JWTSecret   string
	SessionTTL  time.Duration
	ModeratorID int64
}

type Service struct {
	secret      []byte
	sessions    SessionStore
	ttl         time.Duration
	moderatorID int64
	configured  bool
	now         func() time.Time
}

type Claims struct {
	TelegramID int64
	SID        string
	ExpiresAt  time.Time
}

type tokenClaims struct {
	TelegramID int64  `json:"tid"`
	SID        string `json:"sid"`
	jwt.RegisteredClaims
}

func NewService(cfg Config, sessions SessionStore) *Service {
	secret := strings.TrimSpace(cfg.JWTSecret)
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		secret:      []byte(secret),
		sessions:    sessions,
		ttl:         ttl,
		moderatorID: cfg.ModeratorID,
		configured:  secret != "" && sessions != nil && cfg.ModeratorID != 0,
		now:         time.Now,
	}
}

func (s *Service) IsConfigured() bool {
	return s != nil && s.configured
}

// Issue mints a bearer token for the moderator and records its session.
func (s *Service) Issue(ctx context.Context, telegramID int64) (string, Claims, error) {
	if !s.IsConfigured() {
		return "", Claims{}, ErrUnavailable
	}
	if telegramID != s.moderatorID {
		return "", Claims{}, ErrNotModerator
	}

	now := s.now().UTC()
	sid := uuid.New()
	expiresAt := now.Add(s.ttl)

	if err := s.sessions.Create(ctx, model.AdminSession{
		ID:         sid.String(),
		TelegramID: telegramID,
		CreatedAt:  now,
		ExpiresAt:  expiresAt,
	}); err != nil {
		return "", Claims{}, fmt.Errorf("create admin session: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		TelegramID: telegramID,
		SID:        sid.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", telegramID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        sid.String(),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign admin token: %w", err)
	}

	return signed, Claims{TelegramID: telegramID, SID: sid.String(), ExpiresAt: expiresAt}, nil
}

func (s *Service) ValidateAccessToken(ctx context.Context, accessToken string) (Claims, error) {
	if !s.IsConfigured() {
		return Claims{}, ErrUnavailable
	}

	claims, err := s.parse(accessToken)
	if err != nil {
		return Claims{}, ErrUnauthorized
	}
	if claims.TelegramID != s.moderatorID {
		return Claims{}, ErrUnauthorized
	}

	sid, err := uuid.Parse(claims.SID)
	if err != nil {
		return Claims{}, ErrUnauthorized
	}
	if err := s.sessions.Touch(ctx, sid, claims.TelegramID); err != nil {
		if errors.Is(err, redisrepo.ErrSessionNotFound) {
			return Claims{}, ErrSessionExpired
		}
		return Claims{}, fmt.Errorf("touch admin session: %w", err)
	}
	return claims, nil
}

func (s *Service) Revoke(ctx context.Context, accessToken string) error {
	if !s.IsConfigured() {
		return ErrUnavailable
	}

	claims, err := s.parse(accessToken)
	if err != nil {
		return ErrUnauthorized
	}
	sid, err := uuid.Parse(claims.SID)
	if err != nil {
		return ErrUnauthorized
	}
	if err := s.sessions.Revoke(ctx, sid); err != nil {
		if errors.Is(err, redisrepo.ErrSessionNotFound) {
			return ErrSessionExpired
		}
		return fmt.Errorf("revoke admin session: %w", err)
	}
	return nil
}

func (s *Service) parse(accessToken string) (Claims, error) {
	token, err := jwt.ParseWithClaims(strings.TrimSpace(accessToken), &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrUnauthorized
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return Claims{}, ErrUnauthorized
	}
	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return Claims{}, ErrUnauthorized
	}
	if tc.TelegramID == 0 || strings.TrimSpace(tc.SID) == "" {
		return Claims{}, ErrUnauthorized
	}

	claims := Claims{
		TelegramID: tc.TelegramID,
		SID:        strings.TrimSpace(tc.SID),
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	return claims, nil
}
