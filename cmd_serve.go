package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"greengain/config"
	httpLayer "greengain/http"
	"greengain/metrics"
	"greengain/repository"
	"greengain/service"
)

const (
	shutdownTimeout  = 10 * time.Second
	redisPingTimeout = 5 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Starts the credit API. Session estimates are kept in Redis when
redis.addr is set, otherwise in memory. When rules.path is set the rule
table is reloaded whenever the file changes.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rules, err := activeRules(cfg)
	if err != nil {
		return err
	}

	reg := metrics.NewDefault()

	var cache repository.CacheRepository
	if cfg.Redis.Addr != "" {
		redisCache := repository.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password(), cfg.Redis.DB)
		defer redisCache.Close()

		pingCtx, cancel := context.WithTimeout(cmd.Context(), redisPingTimeout)
		err := redisCache.Ping(pingCtx)
		cancel()
		if err != nil {
			return err
		}
		logger.Info("session store: redis", zap.String("addr", cfg.Redis.Addr), zap.Int("db", cfg.Redis.DB))
		cache = redisCache
	} else {
		logger.Info("session store: in-memory")
		cache = repository.NewMockCache()
	}
	estimates := repository.NewCacheEstimateRepository(cache, cfg.Session.TTL)

	credits := service.NewCreditService(service.NewCreditEngine(rules), estimates, logger, reg)
	filler := service.NewAutoFiller(nil)
	ai := service.NewAIService(service.AIConfig{
		APIKey:  cfg.AI.Key(),
		URL:     cfg.AI.URL,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	}, logger)
	roadmaps := service.NewRoadmapService(credits, filler, ai, logger, reg)

	rateLimiter := httpLayer.NewRateLimiterFromConfig(cfg.RateLimit)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.RouterDeps{
		Credits:     httpLayer.NewCreditHandler(credits, filler, service.NewExportService(), logger),
		Roadmaps:    httpLayer.NewRoadmapHandler(roadmaps, logger),
		RateLimiter: rateLimiter,
		Metrics:     reg,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("API listening", zap.String("addr", server.Addr), zap.Int("tax_year", rules.TaxYear))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting server: %w", err)
		}
		return nil
	})

	if cfg.Rules.Path != "" && cfg.Rules.Watch {
		g.Go(func() error {
			if err := config.WatchRules(gctx, cfg.Rules.Path, credits.SetRules, logger); err != nil {
				logger.Error("rules watcher stopped", zap.Error(err))
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server exited")
	return nil
}
