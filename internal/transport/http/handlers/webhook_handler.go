package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	tginfra "github.com/ivankudzin/teenmatch/internal/infra/telegram"
	httperrors "github.com/ivankudzin/teenmatch/internal/transport/http/errors"
)

const (
	webhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"
	maxUpdateBytes      = 1 << 20
)

type UpdateRouter interface {
	Handle(ctx context.Context, update tginfra.Update) error
}

// UpdateClaimer drops redelivered updates. Optional.
type UpdateClaimer interface {
	Claim(ctx context.Context, updateID int64, ttl time.Duration) (bool, error)
	Release(ctx context.Context, updateID int64) error
}

// UpdateLimiter throttles chatty senders. Optional.
type UpdateLimiter interface {
	Allow(ctx context.Context, userID int64) (int64, bool, error)
}

type WebhookConfig struct {
	Secret   string
	DedupTTL time.Duration
}

type WebhookHandler struct {
	router  UpdateRouter
	claimer UpdateClaimer
	limiter UpdateLimiter
	cfg     WebhookConfig
	logger  *zap.Logger
}

type webhookAck struct {
	OK bool `json:"ok"`
}

func NewWebhookHandler(router UpdateRouter, claimer UpdateClaimer, cfg WebhookConfig, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{router: router, claimer: claimer, cfg: cfg, logger: logger}
}

func (h *WebhookHandler) AttachLimiter(limiter UpdateLimiter) {
	h.limiter = limiter
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Secret != "" {
		got := r.Header.Get(webhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.cfg.Secret)) != 1 {
			httperrors.Write(w, http.StatusUnauthorized, httperrors.WebhookError{Error: "invalid secret token"})
			return
		}
	}
	if h.router == nil {
		httperrors.Write(w, http.StatusInternalServerError, httperrors.WebhookError{Error: "bot router is unavailable"})
		return
	}

	var raw tgbotapi.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBytes)).Decode(&raw); err != nil {
		httperrors.Write(w, http.StatusBadRequest, httperrors.WebhookError{Error: "invalid update payload"})
		return
	}

	update, ok := tginfra.FromAPIUpdate(raw)
	if !ok {
		httperrors.Write(w, http.StatusOK, webhookAck{OK: true})
		return
	}

	ctx := r.Context()
	if !h.claim(ctx, update.ID) {
		h.logger.Debug("skip redelivered update", zap.Int("update_id", update.ID))
		httperrors.Write(w, http.StatusOK, webhookAck{OK: true})
		return
	}

	if retryAfter, ok := h.allow(ctx, update.SenderID()); !ok {
		h.logger.Info("throttle telegram sender",
			zap.Int("update_id", update.ID),
			zap.Int64("user_id", update.SenderID()),
			zap.Int64("retry_after_sec", retryAfter),
		)
		httperrors.Write(w, http.StatusOK, webhookAck{OK: true})
		return
	}

	if err := h.router.Handle(ctx, update); err != nil {
		h.logger.Error("handle telegram update", zap.Int("update_id", update.ID), zap.Error(err))
		h.release(ctx, update.ID)
		httperrors.Write(w, http.StatusInternalServerError, httperrors.WebhookError{Error: "failed to process update"})
		return
	}

	httperrors.Write(w, http.StatusOK, webhookAck{OK: true})
}

// claim fails open: when Redis is unreachable the update is processed anyway.
func (h *WebhookHandler) claim(ctx context.Context, updateID int) bool {
	if h.claimer == nil {
		return true
	}
	first, err := h.claimer.Claim(ctx, int64(updateID), h.cfg.DedupTTL)
	if err != nil {
		h.logger.Warn("claim telegram update", zap.Int("update_id", updateID), zap.Error(err))
		return true
	}
	return first
}

// allow fails open like claim.
func (h *WebhookHandler) allow(ctx context.Context, userID int64) (int64, bool) {
	if h.limiter == nil || userID <= 0 {
		return 0, true
	}
	retryAfter, ok, err := h.limiter.Allow(ctx, userID)
	if err != nil {
		h.logger.Warn("rate limit telegram sender", zap.Int64("user_id", userID), zap.Error(err))
		return 0, true
	}
	return retryAfter, ok
}

func (h *WebhookHandler) release(ctx context.Context, updateID int) {
	if h.claimer == nil {
		return
	}
	if err := h.claimer.Release(ctx, int64(updateID)); err != nil {
		h.logger.Warn("release telegram update", zap.Int("update_id", updateID), zap.Error(err))
	}
}
