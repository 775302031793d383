package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/smartdiet/backend/config"
	httpDelivery "github.com/smartdiet/backend/internal/delivery/http"
	"github.com/smartdiet/backend/internal/infrastructure/cache"
	"github.com/smartdiet/backend/internal/knowledge"
	"github.com/smartdiet/backend/internal/logger"
	"github.com/smartdiet/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	zl.Info("starting SmartDiet backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)

	// Initialize infrastructure dependencies
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	foodCache, err := cache.New(startupCtx, cfg.Cache.Type, cfg.Cache.RedisURL)
	cancelStartup()
	if err != nil {
		zl.Fatal("failed to initialize cache", zap.Error(err))
	}
	defer foodCache.Close()

	rules := knowledge.LoadRuleCatalog(cfg.Catalog.RulesOverlayPath, zl)
	foods := knowledge.NewCSVFoodSource(cfg.Catalog.FoodsPath, zl)

	// Initialize usecase layer
	dietService := usecase.NewDietService(foods, foodCache, zl, usecase.DietServiceConfig{
		Rules:           rules,
		Priorities:      knowledge.DefaultPriorityTable(),
		StapleKeywords:  cfg.Recommend.StapleKeywords,
		SuggestionLimit: cfg.Recommend.SuggestionLimit,
		MaxFoods:        cfg.Recommend.MaxItems,
		CacheTTL:        cfg.Cache.TTL,
	})

	zl.Info("knowledge base ready",
		zap.Int("categories", len(rules)),
		zap.String("foods_path", cfg.Catalog.FoodsPath),
		zap.String("rules_overlay_path", cfg.Catalog.RulesOverlayPath),
		zap.Int("max_foods", cfg.Recommend.MaxItems),
		zap.Int("rate_limit_per_ip", cfg.RateLimit.PerIP),
	)

	handler := httpDelivery.NewHandler(dietService, zl)
	router := httpDelivery.SetupRouter(cfg, handler, zl)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}

	zl.Info("server exited")
}
