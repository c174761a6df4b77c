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

	"github.com/qa-forum/server/src/server/auth"
	"github.com/qa-forum/server/src/server/config"
	"github.com/qa-forum/server/src/server/handlers"
	"github.com/qa-forum/server/src/server/logging"
	"github.com/qa-forum/server/src/server/middleware"
	"github.com/qa-forum/server/src/server/repository"
	"github.com/qa-forum/server/src/server/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := b.close(); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}()

	if cfg.JWTSecret == config.DefaultJWTSecret {
		slog.Warn("JWT_SECRET is not set; tokens are signed with the development secret")
	}

	users := repository.NewUsers(b.store)
	questions := repository.NewQuestions(b.store)
	answers := repository.NewAnswers(b.store)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)
	credentials := auth.NewCredentialProvider(users)
	policy := auth.AnyOf(auth.NewBearerProvider(tokens, users), credentials)

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		limiter.StartCleanup(ctx, 10*time.Minute)
	}

	handler := router.New(router.Deps{
		Accounts: &handlers.AccountHandler{
			Users:       users,
			Tokens:      tokens,
			Credentials: credentials,
			BcryptCost:  cfg.BcryptCost,
		},
		Questions:   &handlers.QuestionHandler{Questions: questions, Answers: answers, Auth: policy},
		Answers:     &handlers.AnswerHandler{Questions: questions, Answers: answers, Auth: policy},
		Health:      &handlers.HealthHandler{Store: b.store, Storage: b.objects},
		Metrics:     middleware.NewMetrics(),
		Limiter:     limiter,
		CORSOrigins: cfg.CORSOrigins,
		TrustProxy:  cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("Forum server listening", "port", cfg.Port, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
