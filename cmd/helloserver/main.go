// Command helloserver runs the toy web server: a TCP listener feeding
// a fixed-size worker pool, one job per connection.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hellopool/internal/config"
	"hellopool/internal/server"
	"hellopool/pool"
)

var version = "dev"

const shutdownGrace = 30 * time.Second

func main() {
	var (
		configFile  = flag.String("config", "", "config file path (YAML/JSON)")
		addr        = flag.String("addr", "", "listen address (overrides config)")
		workers     = flag.Int("workers", 0, "worker pool size (overrides config)")
		staticDir   = flag.String("static", "", "static page directory (overrides config)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("helloserver version %s\n", version)
		return
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(*configFile, *addr, *workers, *staticDir, logger); err != nil {
		logger.Error("server failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(configFile, addr string, workers int, staticDir string, logger *zap.Logger) error {
	cfg, err := buildConfig(configFile, addr, workers, staticDir)
	if err != nil {
		return err
	}
	sleep, err := cfg.SleepDuration()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poolOpts := []pool.Option{pool.WithBaseContext(ctx)}
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		poolOpts = append(poolOpts, pool.WithMetrics(pool.NewPrometheusMetrics(reg, "helloserver")))
		go serveMetrics(cfg.MetricsAddr, reg, logger)
	}

	p, err := pool.New(cfg.Workers, poolOpts...)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:      cfg.Addr,
		StaticDir: cfg.StaticDir,
		Sleep:     sleep,
		RateLimit: rate.Limit(cfg.RateLimit),
		RateBurst: cfg.RateBurst,
	}, p, logger)

	logger.Info("starting",
		zap.String("version", version),
		zap.String("addr", cfg.Addr),
		zap.Int("workers", cfg.Workers),
	)

	serveErr := srv.Run(ctx)

	// Drain: every connection accepted before the stop signal still
	// gets its response before we exit.
	logger.Info("draining worker pool")
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := p.Shutdown(drainCtx); err != nil {
		logger.Warn("pool drain incomplete", zap.Error(err))
	}

	return serveErr
}

// buildConfig layers file, environment, and flag settings over the
// defaults, in that order.
func buildConfig(configFile, addr string, workers int, staticDir string) (config.Config, error) {
	// Missing .env is fine; it only provides optional overrides.
	_ = godotenv.Load()

	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.LoadFile(configFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	if addr != "" {
		cfg.Addr = addr
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if staticDir != "" {
		cfg.StaticDir = staticDir
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Info("metrics endpoint", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics endpoint failed", zap.Error(err))
	}
}
