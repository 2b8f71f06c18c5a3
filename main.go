package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/rs/cors"

	"contentboost/config"
	"contentboost/database"
	"contentboost/game"
	"contentboost/handlers"
	"contentboost/logger"
	"contentboost/middleware"
	"contentboost/scoring"
	"contentboost/session"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slot, closeSlot, err := openSlot(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("failed to open session storage", "backend", cfg.Storage.Backend, "error", err)
	}
	defer closeSlot()

	store := session.NewStore(slot,
		session.WithKey(cfg.Storage.Key),
		session.WithLogger(log.With("component", "session")),
		session.WithAuthDelay(cfg.Auth.Delay.Duration),
	)
	store.Load(ctx)

	svc := game.NewService(store,
		scoring.NewRandomEvaluator(cfg.Scoring.Delay.Duration, nil),
		game.WithLogger(log.With("component", "game")),
	)

	cookies := sessions.NewCookieStore([]byte(cfg.Auth.SessionSecret))
	cookies.Options.HttpOnly = true
	cookies.Options.SameSite = http.SameSiteLaxMode

	r := handlers.NewRouter(handlers.Deps{
		Store:   store,
		Service: svc,
		Cookies: cookies,
		Tokens:  middleware.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Duration),
		Log:     log.With("component", "http"),
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
	})

	srv := &http.Server{
		Handler:      c.Handler(r),
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	go func() {
		log.Info("server starting", "addr", cfg.Server.Addr, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if err := store.Flush(shutdownCtx); err != nil {
		log.Error("final session flush failed", "error", err)
	}
	log.Info("server stopped")
}

// openSlot builds the durable slot for the configured backend.
func openSlot(ctx context.Context, cfg config.StorageConfig) (session.Slot, func(), error) {
	switch cfg.Backend {
	case "memory":
		return session.NewMemorySlot(), func() {}, nil
	case "redis":
		rdb, err := session.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisSlot(rdb), func() { rdb.Close() }, nil
	case "postgres":
		db, err := database.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := database.InitDB(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return database.NewPostgresSlot(db), func() { db.Close() }, nil
	default:
		slot, err := session.NewFileSlot(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return slot, func() {}, nil
	}
}
