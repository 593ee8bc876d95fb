package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ivankudzin/teenmatch/internal/config"
	adminauthsvc "github.com/ivankudzin/teenmatch/internal/services/adminauth"
	modsvc "github.com/ivankudzin/teenmatch/internal/services/moderation"
	"github.com/ivankudzin/teenmatch/internal/transport/http/handlers"
)

type Dependencies struct {
	ModerationService *modsvc.Service
	AdminAuthService  *adminauthsvc.Service
	UpdateRouter      handlers.UpdateRouter
	UpdateClaimer     handlers.UpdateClaimer
	UpdateLimiter     handlers.UpdateLimiter
	HealthChecks      map[string]handlers.Pinger
	Logger            *zap.Logger
	Config            config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.HealthChecks)
	webhookHandler := handlers.NewWebhookHandler(deps.UpdateRouter, deps.UpdateClaimer, handlers.WebhookConfig{
		Secret:   deps.Config.Bot.WebhookSecret,
		DedupTTL: deps.Config.Bot.UpdateDedupTTL,
	}, deps.Logger)
	if deps.UpdateLimiter != nil {
		webhookHandler.AttachLimiter(deps.UpdateLimiter)
	}
	moderatorHandler := handlers.NewModeratorHandler(deps.ModerationService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)
	r.Post("/telegram/webhook", webhookHandler.Handle)

	r.Route("/api/moderator", func(r chi.Router) {
		r.Use(CORSMiddleware(deps.Config.Admin.AllowedOrigin))
		r.Use(ModeratorAuthMiddleware(deps.AdminAuthService, deps.Logger))
		r.HandleFunc("/", moderatorHandler.Handle)
	})
}
