package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/devconnect/devconnect/internal/app"
	"github.com/devconnect/devconnect/internal/auth"
	"github.com/devconnect/devconnect/internal/github"
	"github.com/devconnect/devconnect/internal/observability"
	"github.com/devconnect/devconnect/internal/platform/cache"
	"github.com/devconnect/devconnect/internal/platform/db"
	"github.com/devconnect/devconnect/internal/platform/validate"
	"github.com/devconnect/devconnect/internal/posts"
	"github.com/devconnect/devconnect/internal/profiles"
	"github.com/devconnect/devconnect/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if cfg.DBMigrate {
		if err := db.Migrate(ctx, cfg.PGDSN); err != nil {
			logger.Error("migrate database", slog.Any("error", err))
			os.Exit(1)
		}
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			logger.Warn("redis unavailable, running without cache and job queue", slog.Any("error", err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
		}
	}

	validator := validate.New()

	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.TokenTTL,
		Issuer: cfg.JWTIssuer,
	})
	requireAuth := auth.Middleware(tokens, logger)

	authService := auth.NewService(auth.NewRepository(dbpool), auth.NewBcryptHasher(cfg.BcryptCost), tokens)
	authHandler := auth.NewHandler(logger, authService, validator, requireAuth)

	postService := posts.NewService(posts.NewRepository(dbpool), app.UserAuthors{Users: authService}, logger)
	postHandler := posts.NewHandler(logger, postService, validator, requireAuth)

	githubClient := github.NewClient(github.Config{
		BaseURL:  cfg.GitHubAPIURL,
		Token:    cfg.GitHubToken,
		CacheTTL: cfg.GitHubCacheTTL,
	}, redisClient, logger)

	var purger profiles.PostPurger = postService
	var jobHandler *jobs.Handler
	if redisClient != nil {
		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
		jobClient := jobs.NewClient(redisOpts)
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		purger = jobClient

		inspector := asynq.NewInspector(redisOpts)
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	} else {
		jobHandler = jobs.NewHandler(nil, logger)
	}

	profileService := profiles.NewService(profiles.NewRepository(dbpool), purger, githubClient, logger)
	profileHandler := profiles.NewHandler(logger, profileService, validator, requireAuth)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		AuthHandler:    authHandler,
		ProfileHandler: profileHandler,
		PostHandler:    postHandler,
		JobHandler:     jobHandler,
		Metrics:        observability.NewMetrics(),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
