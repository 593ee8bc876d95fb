// Package wiring assembles the domain services over one of the stores.
package wiring

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ivankudzin/teenmatch/internal/config"
	"github.com/ivankudzin/teenmatch/internal/repo/memory"
	pgrepo "github.com/ivankudzin/teenmatch/internal/repo/postgres"
	feedsvc "github.com/ivankudzin/teenmatch/internal/services/feed"
	likesvc "github.com/ivankudzin/teenmatch/internal/services/likes"
	modsvc "github.com/ivankudzin/teenmatch/internal/services/moderation"
	profilesvc "github.com/ivankudzin/teenmatch/internal/services/profiles"
	reportsvc "github.com/ivankudzin/teenmatch/internal/services/reports"
	"github.com/ivankudzin/teenmatch/internal/ui"
)

var ownerMessages = modsvc.OwnerMessages{
	Approved: ui.MsgApprovedOwner,
	Rejected: ui.MsgRejectedOwner,
}

// MemoryDSN selects the in-process store instead of PostgreSQL.
const MemoryDSN = "memory://"

type Services struct {
	Profiles   *profilesvc.Service
	Feed       *feedsvc.Service
	Likes      *likesvc.Service
	Reports    *reportsvc.Service
	Moderation *modsvc.Service

	// Ping checks the backing database; nil for the in-memory store.
	Ping func(ctx context.Context) error
}

// Open connects the configured store and builds services on top of it.
// The returned close func releases the store.
func Open(ctx context.Context, cfg config.Config, notifier modsvc.Notifier, logger *zap.Logger) (Services, func(), error) {
	if strings.HasPrefix(cfg.Postgres.DSN, MemoryDSN) {
		logger.Warn("using in-memory store, data is lost on restart")
		return FromMemory(memory.NewStore(), cfg, notifier, logger), func() {}, nil
	}

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.Schema)
	if err != nil {
		return Services{}, nil, fmt.Errorf("init postgres: %w", err)
	}
	if cfg.Postgres.Migrate {
		if err := pgrepo.Migrate(ctx, pool); err != nil {
			pool.Close()
			return Services{}, nil, fmt.Errorf("migrate postgres: %w", err)
		}
	}

	services := FromPostgres(pool, cfg, notifier, logger)
	services.Ping = pool.Ping
	return services, pool.Close, nil
}

func FromPostgres(pool *pgxpool.Pool, cfg config.Config, notifier modsvc.Notifier, logger *zap.Logger) Services {
	profileRepo := pgrepo.NewProfileRepo(pool)
	reportRepo := pgrepo.NewReportRepo(pool)

	profiles := profilesvc.NewService(profileRepo, profilesConfig(cfg))
	reports := reportsvc.NewService(reportRepo)

	return Services{
		Profiles: profiles,
		Feed:     feedsvc.NewService(pgrepo.NewFeedRepo(pool)),
		Likes:    likesvc.NewService(pgrepo.NewLikeRepo(pool), profileRepo, pgrepo.NewMatchRepo(pool), likesConfig(cfg)),
		Reports:  reports,
		Moderation: modsvc.NewService(modsvc.Dependencies{
			Profiles:      profiles,
			Reports:       reports,
			ProfileQueue:  profileRepo,
			ReportQueue:   reportRepo,
			Stats:         pgrepo.NewStatsRepo(pool),
			Notifier:      notifier,
			OwnerMessages: ownerMessages,
			Logger:        logger,
		}),
	}
}

func FromMemory(store *memory.Store, cfg config.Config, notifier modsvc.Notifier, logger *zap.Logger) Services {
	profiles := profilesvc.NewService(store.Profiles(), profilesConfig(cfg))
	reports := reportsvc.NewService(store.Reports())

	return Services{
		Profiles: profiles,
		Feed:     feedsvc.NewService(store.Feed()),
		Likes:    likesvc.NewService(store.Likes(), store.Profiles(), store.Matches(), likesConfig(cfg)),
		Reports:  reports,
		Moderation: modsvc.NewService(modsvc.Dependencies{
			Profiles:      profiles,
			Reports:       reports,
			ProfileQueue:  store.Profiles(),
			ReportQueue:   store.Reports(),
			Stats:         store.Stats(),
			Notifier:      notifier,
			OwnerMessages: ownerMessages,
			Logger:        logger,
		}),
	}
}

func profilesConfig(cfg config.Config) profilesvc.Config {
	return profilesvc.Config{
		AgeMin:              cfg.Profiles.AgeMin,
		AgeMax:              cfg.Profiles.AgeMax,
		PlaceholderPhotoURL: cfg.Profiles.PlaceholderPhotoURL,
	}
}

func likesConfig(cfg config.Config) likesvc.Config {
	return likesvc.Config{
		LikesPerDay: cfg.Limits.LikesPerDay,
		Window:      cfg.Limits.LikesWindow,
	}
}
