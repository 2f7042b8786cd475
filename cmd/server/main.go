package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/splitledger/splitledger/internal/api/handlers"
	"github.com/splitledger/splitledger/internal/api/middleware"
	"github.com/splitledger/splitledger/internal/api/router"
	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/config"
	"github.com/splitledger/splitledger/internal/service"
	"github.com/splitledger/splitledger/internal/storage/sqlite"
	"github.com/splitledger/splitledger/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)
	logger := slog.Default()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	groupService := service.NewGroupService(store, logger)
	expenseService := service.NewExpenseService(store, groupService, logger)
	settlementService := service.NewSettlementService(store, groupService, logger)
	balanceService := service.NewBalanceService(store, groupService, logger)

	mux := router.New(router.Config{
		Logger:            logger,
		AllowedOrigins:    cfg.AllowedOrigins,
		AuthHandler:       handlers.NewAuthHandler(authenticator, jwtManager, store),
		GroupHandler:      handlers.NewGroupHandler(groupService),
		ExpenseHandler:    handlers.NewExpenseHandler(expenseService),
		SettlementHandler: handlers.NewSettlementHandler(settlementService),
		BalanceHandler:    handlers.NewBalanceHandler(balanceService),
		AuthMiddleware:    middleware.Auth(jwtManager),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server starting", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-done
}
