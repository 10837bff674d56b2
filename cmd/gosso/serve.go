package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	goSSO "github.com/MrEthical07/goSSO"
	"github.com/MrEthical07/goSSO/internal/config"
	"github.com/MrEthical07/goSSO/internal/logging"
	"github.com/MrEthical07/goSSO/metrics/export/prometheus"
	"github.com/MrEthical07/goSSO/transport/httpapi"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	addr   string
	memory bool
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SSO HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	cmd.Flags().BoolVar(&opts.memory, "memory", false, "use an embedded in-memory redis (development only)")

	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.HTTPAddr = opts.addr
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return oops.In("serve").Wrap(err)
	}
	slog.SetDefault(logger)

	srv, cleanup, err := buildServer(cfg, opts.memory, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "env", cfg.Env, "memory", opts.memory)
		if err := srv.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return oops.In("serve").With("addr", cfg.HTTPAddr).Wrapf(err, "http server")
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// buildServer wires the store, engine and transport. The returned cleanup
// closes the store.
func buildServer(cfg *config.Config, memory bool, logger *slog.Logger) (*echo.Echo, func(), error) {
	if memory && cfg.IsProduction() {
		return nil, nil, oops.In("serve").Errorf("--memory is not allowed when APP_ENV=production")
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return nil, nil, err
	}

	redisOpts := cfg.RedisOptions()
	var mr *miniredis.Miniredis
	if memory {
		mr, err = miniredis.Run()
		if err != nil {
			return nil, nil, oops.In("serve").Wrapf(err, "start in-memory redis")
		}
		redisOpts = &redis.Options{Addr: mr.Addr()}
		logger.Warn("using in-memory redis; state is lost on exit")
	}

	rdb := redis.NewClient(redisOpts)
	cleanup := func() {
		_ = rdb.Close()
		if mr != nil {
			mr.Close()
		}
	}

	engine, err := goSSO.New().
		WithConfig(engineCfg).
		WithRedis(rdb).
		WithLogger(logger).
		Build()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	deps := httpapi.Deps{Engine: engine, Logger: logger}
	if engineCfg.Metrics.Enabled {
		deps.Metrics = prometheus.Handler(prometheus.NewRegistry(engine))
	}

	return httpapi.New(deps), cleanup, nil
}
