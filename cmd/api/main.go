package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/httpx"
	"bookstore/internal/platform/cache"
	"bookstore/internal/platform/logger"
	"bookstore/internal/platform/postgres"
	"bookstore/internal/seller"

	"github.com/sirupsen/logrus"
)

func main() {
	config.LoadEnvFiles()
	cfg := config.Load()
	log := logger.New(cfg.AppName, cfg.Env)

	ctx := context.Background()
	dbPool, err := postgres.NewPool(ctx, cfg.DBDSN, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.WithField("dsn", postgres.RedactDSN(cfg.DBDSN)).Fatalf("cannot open database: %v", err)
	}
	defer dbPool.Close()
	log.Info("database connection OK")

	var readCache cache.Cache = cache.Noop{}
	if cfg.CacheEnabled() {
		rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, continuing with cache reads failing open")
		}
		cancel()
		readCache = cache.NewRedis(rdb, cfg.AppName)
		log.WithField("addr", cfg.RedisAddr).Info("seller cache enabled")
	}

	sellerService := seller.NewService(
		seller.NewPostgresRepo(dbPool, cfg.DBTimeout),
		seller.WithCache(readCache, cfg.CacheTTL),
		seller.WithLogger(log),
	)
	bookService := book.NewService(
		book.NewPostgresRepo(dbPool, cfg.DBTimeout),
		book.WithCache(readCache),
		book.WithLogger(log),
	)

	rateLimiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst,
		httpx.WithTrustedProxies(cfg.TrustedProxyPrefixes()))
	defer rateLimiter.Stop()

	handler := newRouter(routerDeps{
		cfg:         cfg,
		log:         log,
		db:          dbPool,
		sellers:     seller.NewHTTPHandler(sellerService, log),
		books:       book.NewHTTPHandler(bookService, log),
		rateLimiter: rateLimiter,
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("Starting server")
		serverErr <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

type routerDeps struct {
	cfg         *config.Config
	log         logrus.FieldLogger
	db          pinger
	sellers     *seller.HTTPHandler
	books       *book.HTTPHandler
	rateLimiter *httpx.RateLimitMiddleware
}

func newRouter(d routerDeps) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	d.sellers.Register(router)
	d.books.Register(router)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.log),
		httpx.RecoveryMiddleware(d.log),
		httpx.SecurityHeadersMiddleware(d.cfg.EnableHSTS),
		httpx.CORSMiddleware(d.cfg.CORSOrigins()),
		httpx.RequestSizeLimitMiddleware(d.cfg.MaxBodyBytes),
		d.rateLimiter.Middleware,
	)
}
