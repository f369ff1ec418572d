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

	authhandler "phonebook/internal/auth/handler"
	authservice "phonebook/internal/auth/service"
	"phonebook/internal/auth/session"
	"phonebook/internal/auth/token"
	"phonebook/internal/avatar"
	contacthandler "phonebook/internal/contact/handler"
	contactservice "phonebook/internal/contact/service"
	contactstore "phonebook/internal/contact/store"
	"phonebook/internal/mail"
	"phonebook/internal/platform/config"
	"phonebook/internal/platform/httpserver"
	"phonebook/internal/platform/logger"
	"phonebook/internal/platform/metrics"
	"phonebook/internal/platform/middleware"
	"phonebook/internal/platform/postgres"
	platformredis "phonebook/internal/platform/redis"
	httptransport "phonebook/internal/transport/http"
	userstore "phonebook/internal/user/store"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Store connectivity failure at startup is fatal; supervisors need a
	// non-zero exit.
	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	users := userstore.NewPostgres(pool)
	contacts := contactstore.NewPostgres(pool)

	// The session table lives in Redis when configured, otherwise in memory
	// (single-instance deployments only).
	var sessions session.Store = session.NewInMemory()
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sessions = session.NewRedis(redisClient.Client)
	}

	m := metrics.New()
	tokens := token.NewService(cfg.JWTSigningKey, cfg.TokenTTL)

	var sender mail.Sender = mail.LogSender{Logger: log}
	if cfg.SMTPHost != "" {
		sender = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	}
	dispatcher := mail.NewDispatcher(sender, cfg.MailQueueSize, log, m)

	var avatars avatar.Storage
	avatarDir := ""
	if cfg.AvatarStorage == "s3" {
		avatars, err = avatar.NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			log.Error("s3 storage setup failed", "error", err)
			os.Exit(1)
		}
	} else {
		avatarDir = cfg.AvatarDir
		avatars = avatar.NewDiskStorage(avatarDir)
	}

	requireAuth := middleware.RequireAuth(tokens, users, sessions, log, m)
	authSvc := authservice.New(users, sessions, tokens, dispatcher, avatars, m, log, cfg.BaseURL)
	contactSvc := contactservice.New(contacts, m, log)

	router := httptransport.NewRouter(log, avatarDir,
		authhandler.New(authSvc, requireAuth, log),
		contacthandler.New(contactSvc, requireAuth, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting phonebook api", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
	}
}
