package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freight-voice-backend/internal/callrecord"
	"freight-voice-backend/internal/carriers"
	"freight-voice-backend/internal/config"
	"freight-voice-backend/internal/events"
	"freight-voice-backend/internal/handoff"
	"freight-voice-backend/internal/httpapi"
	"freight-voice-backend/internal/loads"
	"freight-voice-backend/internal/metrics"
	"freight-voice-backend/internal/prefs"
	"freight-voice-backend/pkg/logger"
	"freight-voice-backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := runMigrations(cfg); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// FMCSA lookups are cached when Redis is configured; without it the
	// verifier hits the upstream API on every call.
	var fmcsaCache *carriers.Cache
	if cfg.Redis.Addr != "" {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.Redis.Addr})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		fmcsaCache = carriers.NewCache(rdb, carriers.DefaultCacheTTL)
	}

	eventStore := events.NewPostgresStore(db)
	prefsStore := prefs.NewPostgresStore(db)
	profileStore := carriers.NewPostgresStore(db)

	h := httpapi.Handlers{
		Events:   eventStore,
		Prefs:    prefsStore,
		Profiles: profileStore,
		Verifier: carriers.NewVerifier(cfg.FMCSA.BaseURL, cfg.FMCSA.WebKey, fmcsaCache),
		Builder:  callrecord.NewBuilder(eventStore, profileStore, prefsStore, log),
		Metrics:  metrics.NewService(),
		Loads:    loads.NewGenerator(),
		Mailer: handoff.NewSMTPSender(handoff.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			UseTLS:   cfg.SMTP.UseTLS,
		}),
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(cors.New(corsConfig()))

	registerRoutes(r, h, cfg.Auth.APIKey)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}

// runMigrations applies pending schema migrations before the server
// accepts traffic. An empty MIGRATIONS_DIR skips the step.
func runMigrations(cfg config.Config) error {
	if cfg.DB.MigrationsDir == "" {
		return nil
	}
	m, err := migrate.New("file://"+cfg.DB.MigrationsDir, cfg.PostgresURL())
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// corsConfig opens the API to browser clients on any origin; the
// dashboard and agent tooling are served from hosts we don't control.
// Credentials must stay disabled while all origins are allowed.
func corsConfig() cors.Config {
	return cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-API-Key"},
		MaxAge:          12 * time.Hour,
	}
}
