package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/coach-report/internal/cache"
	"github.com/jonathan/coach-report/internal/matching"
	"github.com/jonathan/coach-report/internal/parsing"
	"github.com/jonathan/coach-report/internal/server"
	"github.com/jonathan/coach-report/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes report generation, preview, parsing and exercise lookup.`,
	RunE:  runServe,
}

var (
	servePort        int
	serveRedisAddr   string
	serveDatabaseURL string
	serveConfigFile  string
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveRedisAddr, "redis-addr", "", "Redis address for the shared exercise memo (default REDIS_ADDR)")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "Database URL for report storage (default DATABASE_URL)")
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "", "Path to config JSON file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfigFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	redisAddr := serveRedisAddr
	if redisAddr == "" {
		redisAddr = os.Getenv("REDIS_ADDR")
	}

	log, err := newLogger(cfg, cfg.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	idx, methods, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	var memo matching.Cache = matching.NewSharedMemo()
	if redisAddr != "" {
		redisMemo, err := cache.Connect(ctx, cache.Options{
			Addr:      redisAddr,
			Namespace: idx.Fingerprint(),
			Logger:    log,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() { _ = redisMemo.Close() }()
		memo = redisMemo
	}
	matcher := matching.NewMatcher(idx, matching.WithSharedMemo(memo))

	store, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg, log, matcher, methods, store)
	if err != nil {
		return err
	}

	deps := server.Deps{
		Generator: gen,
		Matcher:   matcher,
		Methods:   methods,
		Parse:     cfg.ParseOptions(parsing.VariantAuto),
		Logger:    log,
	}
	if store != nil {
		defer store.Close()
		deps.Store = store
	} else {
		_, _ = fmt.Fprintln(os.Stderr, "Warning: no database configured; reports are not stored")
	}

	srv := server.New(server.Config{
		Port:      servePort,
		Brand:     cfg.Brand,
		RateLimit: ratelimit.LoadConfig(),
	}, deps)
	return srv.Start(ctx)
}
