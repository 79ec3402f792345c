package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/noah-wardlow/tt/internal/app"
	"github.com/noah-wardlow/tt/internal/auth"
	"github.com/noah-wardlow/tt/internal/config"
	"github.com/noah-wardlow/tt/internal/domain/user"
	"github.com/noah-wardlow/tt/internal/infrastructure/db"
	"github.com/noah-wardlow/tt/internal/infrastructure/logging"
	"github.com/noah-wardlow/tt/internal/infrastructure/monitoring"
	"github.com/noah-wardlow/tt/internal/infrastructure/ratelimit"
	redisinfra "github.com/noah-wardlow/tt/internal/infrastructure/redis"
	"github.com/noah-wardlow/tt/internal/oauth"
	"github.com/noah-wardlow/tt/internal/payments"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Sync(logger)

	if err := monitoring.InitSentry(cfg.Monitoring, cfg.App); err != nil {
		logger.Warn("sentry init failed", zap.Error(err))
	}
	monitoring.Init()
	defer monitoring.Flush()

	database, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	defer database.Close()

	var redisClient *redisinfra.Client
	if cfg.Redis.Addr != "" {
		client, err := redisinfra.Connect(cfg.Redis, logger)
		if err == nil {
			redisClient = client
			defer client.Close()
		} else {
			logger.Warn("redis connect failed, falling back to memory stores", zap.Error(err))
		}
	}

	var sessions auth.SessionStore
	if redisClient != nil {
		sessions = auth.NewRedisSessionStore(redisClient.Native)
	} else {
		sessions = auth.NewMemorySessionStore()
	}

	trusted := make([]string, 0, len(oauth.EnabledProviders()))
	for _, p := range oauth.EnabledProviders() {
		trusted = append(trusted, string(p))
	}

	userRepo := db.NewUserRepository(database)
	accountRepo := db.NewAccountRepository(database)
	userService := user.NewService(userRepo, accountRepo, logger, trusted)

	// Auth services are cached per database identifier so repeat lookups
	// reuse one instance and a rotated database resolves to a fresh one.
	authCache := auth.NewServiceCache(func(ctx context.Context, key string) (*auth.Service, error) {
		return auth.NewService(ctx, auth.Deps{
			Auth:         cfg.Auth,
			OAuth:        cfg.OAuth,
			BaseURL:      cfg.App.BaseURL,
			ClientOrigin: cfg.Cors.DefaultOrigin,
			Sessions:     sessions,
			Users:        userService,
			Logger:       logger,
		})
	})
	authService, err := authCache.Get(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("auth service init failed", zap.Error(err))
	}

	eventLog := payments.NewEventLog(cfg.Stripe.MaxRecentEvents)
	webhooks := payments.NewWebhookHandler(cfg.Stripe, logger, eventLog)

	var authLimiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		if redisClient != nil {
			authLimiter = ratelimit.NewRedisLimiter(redisClient.Native, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.RedisPrefix+":auth")
		} else {
			authLimiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		}
	}

	router := app.NewRouter(app.RouterDeps{
		Config:      cfg,
		Sessions:    authService,
		AuthHandler: authService.Handler(),
		UserHandler: user.NewHandler(userService),
		Webhooks:    webhooks,
		AuthLimiter: authLimiter,
		Logger:      logger,
	})

	server := &app.Server{Engine: router, Addr: ":" + cfg.App.Port, Logger: logger}
	if err := server.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
