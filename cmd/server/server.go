package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"qa-service/middleware"
	mwdomain "qa-service/middleware/domain"
	mwinfra "qa-service/middleware/infra"
	"qa-service/qa"
	"qa-service/qa/infra"

	"github.com/avast/retry-go/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app junta o que o servidor precisa; close libera conexões externas.
type app struct {
	handler http.Handler
	store   *infra.MemoryStore
	close   func() error
}

// newApp carrega o seed (erro aqui é fatal), monta o backend de estatísticas e a
// cadeia de middlewares.
func newApp(ctx context.Context, cfg config, lggr *zap.SugaredLogger) (*app, error) {
	seed, err := infra.LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}
	store := infra.NewMemoryStore(infra.WithQuestions(seed))
	lggr.Infow("store seeded", "questions", len(seed), "seed_file", cfg.SeedFile)

	stats, closeStats, err := newStatsStore(ctx, cfg.Stats, lggr)
	if err != nil {
		return nil, err
	}

	var pool *mwinfra.ChanPool
	if cfg.Concurrency.Max > 0 {
		pool = mwinfra.NewChanPool(cfg.Concurrency.Max)
	}

	mux := http.NewServeMux()
	qa.NewHandler(store, lggr.Named("qa")).RegisterRoutes(mux)
	if reader, ok := stats.(mwdomain.StatsReader); ok {
		var gauge mwdomain.SlotGauge
		if pool != nil {
			gauge = pool
		}
		mux.Handle("GET /stats", middleware.StatsHandler(reader, gauge, lggr.Named("stats")))
	}

	return &app{
		handler: chain(mux, cfg, pool, stats, lggr),
		store:   store,
		close:   closeStats,
	}, nil
}

func chain(mux http.Handler, cfg config, pool *mwinfra.ChanPool, stats mwdomain.StatsStore, lggr *zap.SugaredLogger) http.Handler {
	h := mux
	if pool != nil {
		h = middleware.ConcurrencyMiddleware(middleware.ConcurrencyOptions{
			Pool:           pool,
			RejectStatus:   http.StatusServiceUnavailable,
			AcquireTimeout: cfg.Concurrency.Timeout,
			Logger:         lggr.Named("concurrency"),
		})(h)
	}
	h = middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
		MaxAge:         cfg.CORS.MaxAge,
	})(h)
	h = middleware.AccessLog(middleware.AccessLogOptions{
		Logger:         lggr.Named("http"),
		Stats:          stats,
		KeyFn:          middleware.ClientKeyFunc("", cfg.TrustXFF),
		TrackClients:   cfg.Stats.TrackKeys,
		TrustRequestID: cfg.TrustRequestID,
	})(h)
	return h
}

func newStatsStore(ctx context.Context, cfg statsConfig, lggr *zap.SugaredLogger) (mwdomain.StatsStore, func() error, error) {
	noop := func() error { return nil }
	if !cfg.Enabled {
		return nil, noop, nil
	}
	if cfg.Backend != "redis" {
		return mwinfra.NewMemoryStatsStore(), noop, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	err := retry.Do(
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			return rdb.Ping(pingCtx).Err()
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			lggr.Warnw("redis stats ping failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis stats ping: %w", err)
	}

	store := mwinfra.NewRedisStatsStore(
		rdb,
		mwinfra.WithStatsPrefix(cfg.Prefix),
		mwinfra.WithStatsTTL(cfg.TTL),
		mwinfra.WithStatsBucket(cfg.Bucket),
	)
	return store, rdb.Close, nil
}

// serve roda o servidor até ctx encerrar e então faz shutdown gracioso.
func serve(ctx context.Context, cfg config, h http.Handler, lggr *zap.SugaredLogger) error {
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lggr.Infow("listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	lggr.Infow("shutting down", "timeout", cfg.ShutdownTimeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
