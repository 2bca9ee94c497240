package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpgo/investment-calculator/internal/cache"
	"github.com/rpgo/investment-calculator/internal/calculation"
	"github.com/rpgo/investment-calculator/internal/server"
)

type serveOptions struct {
	addr       string
	redisURL   string
	cacheTTL   time.Duration
	cacheSize  int
	origins    []string
	reqTimeout time.Duration
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the projection HTTP API",
		Long:  "Serve the projection HTTP API. Results are memoized in Redis when --redis-url (or REDIS_URL) is set, in memory otherwise.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", ":8080", "HTTP listen address")
	f.StringVar(&opts.redisURL, "redis-url", os.Getenv("REDIS_URL"), "Redis URL for the projection cache")
	f.DurationVar(&opts.cacheTTL, "cache-ttl", time.Hour, "Redis cache entry lifetime")
	f.IntVar(&opts.cacheSize, "cache-size", 1024, "In-memory cache capacity")
	f.StringSliceVar(&opts.origins, "allowed-origins", []string{"*"}, "CORS allowed origins")
	f.DurationVar(&opts.reqTimeout, "request-timeout", 30*time.Second, "Per-request timeout")
	return cmd
}

func runServe(ctx context.Context, root *rootOptions, opts *serveOptions) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: root.level()}))
	slog.SetDefault(logger)

	var c cache.Cache
	if opts.redisURL != "" {
		rc, closeFn, err := cache.NewRedisCacheFromURL(opts.redisURL, opts.cacheTTL)
		if err != nil {
			logger.Error("invalid redis url", "err", err)
			return err
		}
		defer closeFn()
		c = rc
		logger.Info("Redis cache enabled", "ttl", opts.cacheTTL)
	} else {
		c = cache.NewMemoryCache(opts.cacheSize)
		logger.Info("using in-memory projection cache", "entries", opts.cacheSize)
	}

	engine := calculation.NewCachedCalculationEngine(c, calculation.NewSlogLogger(logger))
	srv := server.New(engine, logger, server.Options{
		AllowedOrigins: opts.origins,
		RequestTimeout: opts.reqTimeout,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, opts.addr)
}
