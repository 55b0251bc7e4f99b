package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"ludic-admin/internal"
	"ludic-admin/internal/admin"
	"ludic-admin/internal/config"
	"ludic-admin/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "optional config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := internal.MustDB(cfg.Postgres.URI, cfg.Postgres.MaxConns, log)
	defer db.Close()

	if err := internal.RunMigrations(cfg.Postgres.URI, cfg.Postgres.MigrationsPath); err != nil {
		log.Error("migrations failed", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = internal.EnsureAdmin(ctx, db, cfg.Admin.BootstrapName, cfg.Admin.BootstrapEmail, cfg.Admin.BootstrapPassword, log)
	cancel()
	if err != nil {
		log.Error("bootstrap admin failed", err)
		os.Exit(1)
	}

	var revocations internal.Revocations = internal.NewMemoryRevocations()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		revocations = internal.NewRedisRevocations(rdb, cfg.Redis.KeyPrefix)
		log.Info("token revocations in redis", zap.String("addr", cfg.Redis.Addr))
	}

	players := internal.NewPlayersTable(db)
	matches := internal.NewMatchesTable(db)
	audit := internal.NewAuditTrail(db, log)
	opts := admin.Options{DefaultLeague: cfg.Admin.DefaultLeague}

	sessions := internal.NewSessions(func() *internal.Session {
		return &internal.Session{
			Players: admin.NewScreen(admin.Players(opts), players, cfg.Admin.PageSize, audit, log),
			Matches: admin.NewScreen(admin.Matches(opts), matches, cfg.Admin.PageSize, audit, log),
		}
	})

	r := internal.NewRouter(internal.Deps{
		Log:         log,
		Accounts:    players,
		Players:     players,
		Matches:     matches,
		Audit:       audit,
		Logs:        audit,
		Revocations: revocations,
		Sessions:    sessions,
		Token: internal.TokenOptions{
			Secret: cfg.Auth.JWTSecret,
			TTL:    cfg.Auth.TokenTTL,
			Secure: cfg.Auth.CookieSecure,
		},
		DateLocale: cfg.Admin.DateLocale,
		StaticDir:  cfg.HTTP.StaticDir,
	})

	log.Info("listening", zap.String("port", cfg.HTTP.Port))
	if err := r.Run(":" + cfg.HTTP.Port); err != nil {
		log.Error("server stopped", err)
	}
}
