// Package main запускает HTTP-сервер оптовой витрины mayorista.
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

	"github.com/avdeevsm/mayorista-system/internal/authclient"
	"github.com/avdeevsm/mayorista-system/internal/cart"
	"github.com/avdeevsm/mayorista-system/internal/config"
	"github.com/avdeevsm/mayorista-system/internal/favorites"
	"github.com/avdeevsm/mayorista-system/internal/handler"
	"github.com/avdeevsm/mayorista-system/internal/middleware"
	"github.com/avdeevsm/mayorista-system/internal/order"
	"github.com/avdeevsm/mayorista-system/internal/repository"
	"github.com/avdeevsm/mayorista-system/internal/service"
	"github.com/avdeevsm/mayorista-system/internal/store"
	"github.com/avdeevsm/mayorista-system/internal/whatsapp"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}
	defer repo.Close()

	st, err := store.NewPebbleStore(cfg.StateDir)
	if err != nil {
		sugar.Fatalw("local store initialization error", "error", err.Error())
	}
	defer st.Close()

	carrito := cart.New(st, logger)
	favoritos := favorites.New(st, logger)
	historial := order.NewHistorial(st, logger)
	compiler := order.NewCompiler(carrito, historial, whatsapp.NewLinkBuilder(cfg.WhatsAppNumber))

	var authClient *authclient.Client
	if cfg.AuthServiceAddress != "" {
		authClient = authclient.NewClient(cfg.AuthServiceAddress)
	}

	svc := service.NewService(repo, carrito, favoritos, historial, compiler, authClient)
	defer svc.Close()

	secret := cfg.SessionSecret
	if secret == "" {
		secret = "mayorista-secret"
	}
	adminAuth := middleware.NewAdminAuth(secret)
	h := handler.NewHandler(svc, logger, adminAuth)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting mayorista server", "addr", cfg.RunAddress)
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
