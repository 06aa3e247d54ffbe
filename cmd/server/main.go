package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	authhandler "mangonet/internal/auth/handler"
	authservice "mangonet/internal/auth/service"
	"mangonet/internal/auth/session"
	authstore "mangonet/internal/auth/store"
	"mangonet/internal/auth/token"
	httpapi "mangonet/internal/http"
	"mangonet/internal/notify/mailgun"
	"mangonet/internal/payment/paystack"
	"mangonet/internal/platform/config"
	"mangonet/internal/platform/httpserver"
	"mangonet/internal/platform/logger"
	"mangonet/internal/platform/postgres"
	platformredis "mangonet/internal/platform/redis"
	settingshandler "mangonet/internal/settings/handler"
	settingsservice "mangonet/internal/settings/service"
	settingsstore "mangonet/internal/settings/store"
	submissionhandler "mangonet/internal/submission/handler"
	submissionmetrics "mangonet/internal/submission/metrics"
	submissionservice "mangonet/internal/submission/service"
	submissionstore "mangonet/internal/submission/store"
)

// main only wires dependencies. Business rules live in the internal service
// packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	var (
		submissions submissionservice.Store
		settings    settingsservice.Store
		users       authservice.UserStore
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		submissions = submissionstore.NewPostgres(db)
		settings = settingsstore.NewPostgres(db)
		users = authstore.NewPostgres(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		submissions = submissionstore.NewInMemory()
		settings = settingsstore.NewInMemory()
		users = authstore.NewInMemory()
	}

	// Sessions move to redis when configured so logins survive restarts.
	var sessions session.Store = session.NewInMemory()
	if cfg.RedisURL != "" {
		rc, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			log.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer rc.Close()
		sessions = session.NewRedis(rc.Client)
	}

	settingsSvc := settingsservice.New(settings)
	submissionSvc := submissionservice.New(
		submissions,
		paystack.New(cfg.PaystackBaseURL),
		settingsSvc,
		log,
		submissionservice.WithNotifier(mailgun.New(cfg.MailgunAPIKey, cfg.MailgunDomain, cfg.NotifyTo, log)),
		submissionservice.WithMetrics(submissionmetrics.New()),
	)

	tokens := token.NewService(cfg.JWTSigningKey)
	authSvc := authservice.New(users, settingsSvc, tokens, sessions,
		cfg.SessionTTL, cfg.BootstrapPassword, log)

	router := httpapi.NewRouter(httpapi.Deps{
		Submissions:    submissionhandler.New(submissionSvc, log),
		Settings:       settingshandler.New(settingsSvc, log),
		Auth:           authhandler.New(authSvc, log),
		TokenValidator: tokens,
		Sessions:       sessions,
		Logger:         log,
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting signup service", "addr", cfg.Addr)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
