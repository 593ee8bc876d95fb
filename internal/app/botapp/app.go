package botapp

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ivankudzin/teenmatch/internal/app/wiring"
	"github.com/ivankudzin/teenmatch/internal/config"
	tginfra "github.com/ivankudzin/teenmatch/internal/infra/telegram"
)

// App runs the bot in long-polling mode. Use it when no public webhook URL is available;
// Telegram refuses getUpdates while a webhook is registered for the same token.
type App struct {
	cfg     config.Config
	logger  *zap.Logger
	bot     *tginfra.Bot
	router  *Router
	closeDB func()
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if err := cfg.Validate(config.ModeBot); err != nil {
		return nil, err
	}

	bot, err := tginfra.NewBot(cfg.Bot.Token, cfg.Bot.PollTimeout)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}

	services, closeDB, err := wiring.Open(ctx, cfg, bot, logger)
	if err != nil {
		return nil, err
	}

	router, err := NewRouter(Dependencies{
		Profiles:    services.Profiles,
		Feed:        services.Feed,
		Likes:       services.Likes,
		Reports:     services.Reports,
		Moderation:  services.Moderation,
		Messenger:   bot,
		ModeratorID: cfg.Bot.AdminUserID,
		Logger:      logger,
	})
	if err != nil {
		closeDB()
		return nil, err
	}

	if cfg.Bot.AdminUserID == 0 {
		logger.Warn("admin_telegram_id is not set, moderation commands are disabled")
	}

	return &App{
		cfg:     cfg,
		logger:  logger,
		bot:     bot,
		router:  router,
		closeDB: closeDB,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("bot app started", zap.Int("poll_timeout", a.cfg.Bot.PollTimeout))

	err := a.bot.Listen(ctx, a.handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.Info("bot app stopped")
	return nil
}

func (a *App) handle(ctx context.Context, update tginfra.Update) {
	if err := a.router.Handle(ctx, update); err != nil {
		a.logger.Error("handle telegram update", zap.Int("update_id", update.ID), zap.Error(err))
	}
}

func (a *App) Close() {
	if a.closeDB != nil {
		a.closeDB()
	}
}
