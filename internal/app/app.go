package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"example.com/mafia/internal/auth"
	"example.com/mafia/internal/config"
	"example.com/mafia/internal/game"
	"example.com/mafia/internal/httpapi"
	"example.com/mafia/internal/migrate"
	"example.com/mafia/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg config.Config
	log *zap.Logger

	db  *pgxpool.Pool
	rdb *redis.Client

	reg *game.Registry
	srv *http.Server
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if cfg.Postgres.RunMigrations {
		if err := migrate.Up(cfg.Postgres.URL, cfg.Postgres.MigrationsDir, log); err != nil {
			return nil, err
		}
	}

	// --- Postgres ---
	dbpool, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})

	// Quick connectivity checks (fail fast).
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := dbpool.Ping(pingCtx); err != nil {
		dbpool.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		dbpool.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping (%s db=%d): %w", cfg.Redis.Addr, cfg.Redis.DB, err)
	}

	tokens := auth.NewService([]byte(cfg.Auth.Secret), cfg.Auth.TokenTTL)

	// --- Game ---
	hub := game.NewHub(log.Named("hub"))
	reg := game.NewRegistry(cfg.GameConfig(), hub,
		game.WithLogger(log.Named("game")),
		game.WithRecorder(store.NewResultStore(dbpool)),
		game.WithDirectory(game.NewRedisDirectory(rdb, cfg.Redis.RoomTTL)),
	)
	gameSrv := game.NewServer(reg, hub, tokens, log.Named("ws"))

	sessions := &httpapi.SessionHandler{
		Tokens: tokens,
		Stats:  store.NewStatsStore(dbpool),
		Log:    log.Named("http"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	gameSrv.RegisterRoutes(mux)
	sessions.RegisterRoutes(mux, tokens)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	return &App{cfg: cfg, log: log, db: dbpool, rdb: rdb, reg: reg, srv: srv}, nil
}

// Run serves until ctx is cancelled, then shuts the server down, tears down
// every room and closes the stores.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	a.log.Info("http server starting", zap.String("addr", a.cfg.HTTP.Addr))

	g.Go(func() error {
		err := a.srv.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return a.reg.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		a.log.Info("http server shutting down")
		_ = a.srv.Shutdown(shutdownCtx)
		return nil
	})

	err := g.Wait()
	_ = a.Close(context.Background())
	return err
}

func (a *App) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if a.reg != nil {
		a.reg.Close(ctx)
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	_ = a.log.Sync()
	return nil
}
