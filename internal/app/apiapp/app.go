package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ivankudzin/teenmatch/internal/app/botapp"
	"github.com/ivankudzin/teenmatch/internal/app/wiring"
	"github.com/ivankudzin/teenmatch/internal/config"
	tginfra "github.com/ivankudzin/teenmatch/internal/infra/telegram"
	redrepo "github.com/ivankudzin/teenmatch/internal/repo/redis"
	adminauthsvc "github.com/ivankudzin/teenmatch/internal/services/adminauth"
	ratesvc "github.com/ivankudzin/teenmatch/internal/services/rate"
	"github.com/ivankudzin/teenmatch/internal/transport/http/handlers"
)

// App serves the Telegram webhook and the moderator API.
type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	redis      *goredis.Client
	closeDB    func()
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if err := cfg.Validate(config.ModeAPI); err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	bot, err := tginfra.NewBot(cfg.Bot.Token, cfg.Bot.PollTimeout)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}

	services, closeDB, err := wiring.Open(ctx, cfg, bot, log)
	if err != nil {
		return nil, err
	}

	router, err := botapp.NewRouter(botapp.Dependencies{
		Profiles:    services.Profiles,
		Feed:        services.Feed,
		Likes:       services.Likes,
		Reports:     services.Reports,
		Moderation:  services.Moderation,
		Messenger:   bot,
		ModeratorID: cfg.Bot.AdminUserID,
		Logger:      log,
	})
	if err != nil {
		closeDB()
		return nil, err
	}

	checks := make(map[string]handlers.Pinger)
	if services.Ping != nil {
		checks["postgres"] = handlers.PingFunc(services.Ping)
	}

	deps := Dependencies{
		ModerationService: services.Moderation,
		UpdateRouter:      router,
		HealthChecks:      checks,
		Logger:            log,
		Config:            cfg,
	}

	redisClient, err := redrepo.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn("redis init failed, webhook dedup and moderator api are disabled", zap.Error(err))
		deps.AdminAuthService = adminauthsvc.NewService(adminAuthConfig(cfg), nil)
	} else {
		deps.UpdateClaimer = redrepo.NewUpdateRepo(redisClient)
		limiter := ratesvc.NewLimiter(redrepo.NewRateRepo(redisClient), cfg.Limits.UpdatesPerMinute, cfg.Limits.UpdatesPer10Sec)
		if limiter.Enabled() {
			deps.UpdateLimiter = limiter
		}
		deps.AdminAuthService = adminauthsvc.NewService(adminAuthConfig(cfg), redrepo.NewSessionRepo(redisClient))
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	RegisterRoutes(r, deps)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		redis:      redisClient,
		closeDB:    closeDB,
		httpRouter: r,
	}, nil
}

func adminAuthConfig(cfg config.Config) adminauthsvc.Config {
	return adminauthsvc.Config{
		JWTSecret:   cfg.Admin.JWTSecret,
		SessionTTL:  cfg.Admin.SessionTTL,
		ModeratorID: cfg.Bot.AdminUserID,
	}
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.closeDB != nil {
		a.closeDB()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
