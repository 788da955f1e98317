// Package main запускает HTTP-сервер витрины beautify.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/beautify-storefront/internal/account"
	"github.com/mmeshcher/beautify-storefront/internal/catalog"
	"github.com/mmeshcher/beautify-storefront/internal/checkout"
	"github.com/mmeshcher/beautify-storefront/internal/config"
	"github.com/mmeshcher/beautify-storefront/internal/handler"
	"github.com/mmeshcher/beautify-storefront/internal/middleware"
	"github.com/mmeshcher/beautify-storefront/internal/repository"
	"github.com/mmeshcher/beautify-storefront/internal/service"
)

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	products, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		sugar.Fatalw("catalog loading error", "error", err.Error(), "file", cfg.CatalogFile)
	}

	store, err := repository.Open(cfg.StoreDSN)
	if err != nil {
		sugar.Fatalw("session store initialization error", "error", err.Error())
	}
	defer store.Close()

	accounts := account.NewManager(store, logger.Named("account"),
		account.WithDelays(account.Delays{Auth: cfg.AuthDelay, Profile: cfg.ProfileDelay}),
	)
	orders := checkout.NewProcessor(store, logger.Named("checkout"),
		checkout.WithDelays(checkout.Delays{Place: cfg.CheckoutDelay, Track: cfg.TrackDelay}),
	)

	svc := service.NewService(products, accounts, orders, logger, service.Config{
		SessionTTL:      cfg.SessionTTL,
		SweepInterval:   cfg.SweepInterval,
		NotificationTTL: cfg.NotificationTTL,
	})

	sessions := middleware.NewSessionMiddleware(cfg.SessionSecret)
	h := handler.NewHandler(svc, logger, sessions)

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Фоновое удаление простаивающих сессий
	g.Go(func() error {
		svc.StartSessionSweeper(ctx)
		return nil
	})

	g.Go(func() error {
		sugar.Infow("starting storefront server",
			"addr", cfg.RunAddress,
			"products", products.Len(),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
