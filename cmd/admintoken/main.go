// Command admintoken issues and revokes bearer tokens for the moderator API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/teenmatch/internal/config"
	"github.com/ivankudzin/teenmatch/internal/infra/logger"
	redrepo "github.com/ivankudzin/teenmatch/internal/repo/redis"
	adminauthsvc "github.com/ivankudzin/teenmatch/internal/services/adminauth"
)

func main() {
	var (
		telegramID int64
		revoke     string
	)
	flag.Int64Var(&telegramID, "telegram-id", 0, "moderator telegram id (defaults to admin_telegram_id)")
	flag.StringVar(&revoke, "revoke", "", "revoke the given token instead of issuing one")
	flag.Parse()

	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	if err := cfg.Validate(config.ModeToken); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := redrepo.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("connect redis", zap.Error(err))
	}
	defer func() {
		_ = client.Close()
	}()

	service := adminauthsvc.NewService(adminauthsvc.Config{
		JWTSecret:   cfg.Admin.JWTSecret,
		SessionTTL:  cfg.Admin.SessionTTL,
		ModeratorID: cfg.Bot.AdminUserID,
	}, redrepo.NewSessionRepo(client))

	if revoke != "" {
		if err := service.Revoke(ctx, revoke); err != nil {
			log.Fatal("revoke token", zap.Error(err))
		}
		log.Info("token revoked")
		return
	}

	if telegramID == 0 {
		telegramID = cfg.Bot.AdminUserID
	}
	token, claims, err := service.Issue(ctx, telegramID)
	if err != nil {
		log.Fatal("issue token", zap.Int64("telegram_id", telegramID), zap.Error(err))
	}

	log.Info("token issued", zap.String("sid", claims.SID), zap.Time("expires_at", claims.ExpiresAt))
	fmt.Println(token)
}
