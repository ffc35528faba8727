package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardkv-go/internal/infra/buildinfo"
	"github.com/yndnr/shardkv-go/internal/infra/confloader"
	"github.com/yndnr/shardkv-go/internal/infra/shutdown"
	"github.com/yndnr/shardkv-go/internal/server/config"
	"github.com/yndnr/shardkv-go/internal/server/httpserver"
	"github.com/yndnr/shardkv-go/internal/server/redisserver"
	"github.com/yndnr/shardkv-go/internal/storage/shard"
	"github.com/yndnr/shardkv-go/internal/telemetry/logger"
	"github.com/yndnr/shardkv-go/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	app := &cli.App{
		Name:    "shardkv-server",
		Usage:   "sharded in-memory RESP key-value server",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to configuration file",
				EnvVars: []string{"SHARDKV_CONFIG"},
			},
		},
		Action: func(c *cli.Context) error {
			return run(c.String("config"))
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := initLogger(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slogLogger := logger.Default().Slog()
	logger.Debug("configuration loaded",
		"redis_addr", cfg.Server.Redis.Addr,
		"http_addr", cfg.Server.HTTP.Addr,
		"shards", cfg.Store.ShardCount)

	info := buildinfo.Get()
	logger.Info("starting shardkv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", configFile)

	store := shard.New(shard.Config{
		ShardCount: cfg.Store.ShardCount,
		Logger:     slogLogger,
	})
	logger.Info("shard store ready", "shards", store.ShardCount())

	metrics := metric.Global()
	if err := metrics.Register(metric.NewCollector(store)); err != nil {
		return fmt.Errorf("register shard collector: %w", err)
	}

	redis := redisserver.New(&redisserver.Config{
		Addr:           cfg.Server.Redis.Addr,
		ReadTimeout:    cfg.Server.Redis.ReadTimeout,
		WriteTimeout:   cfg.Server.Redis.WriteTimeout,
		IdleTimeout:    cfg.Server.Redis.IdleTimeout,
		RateLimit:      cfg.Server.Redis.RateLimit,
		MaxConnections: cfg.Server.Redis.MaxConnections,
	}, store, metrics, slogLogger)

	// Hooks run in reverse: listeners stop before the store drains.
	sd := shutdown.NewHandler(shutdownTimeout, slogLogger)
	sd.OnShutdown("store", store.Close)

	if cfg.Server.HTTP.Addr != "" {
		admin := httpserver.New(cfg.Server.HTTP.Addr, httpserver.NewRouter(&httpserver.RouterConfig{
			Stats:       store,
			Connections: redis,
			Metrics:     metric.Handler(),
			Logger:      slogLogger,
			EnableAudit: true,
		}), slogLogger)
		if err := admin.Start(); err != nil {
			_ = store.Close(context.Background())
			return fmt.Errorf("start admin http server: %w", err)
		}
		sd.OnShutdown("http", admin.Shutdown)

		go func() {
			if err, ok := <-admin.Err(); ok && err != nil {
				logger.Error("admin http server failed", "error", err)
				sd.Trigger("admin http server failed")
			}
		}()
	}

	if err := redis.Start(context.Background()); err != nil {
		sd.Trigger("redis server failed to start")
		_ = sd.Wait()
		return fmt.Errorf("start redis server: %w", err)
	}
	sd.OnShutdown("redis", redis.Shutdown)

	if configFile != "" {
		stop, err := watchConfig(configFile, slogLogger)
		if err != nil {
			logger.Warn("config hot reload disabled", "error", err)
		} else {
			sd.OnShutdown("config watcher", func(context.Context) error { return stop() })
		}
	}

	logger.Info("server started, press Ctrl+C to stop",
		"redis_addr", redis.Addr().String(),
		"http_addr", cfg.Server.HTTP.Addr)

	if err := sd.Wait(); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

// loadConfig layers the config file and SHARDKV_* env vars over defaults.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithKeys(config.Keys()...)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	cfg = config.Sanitize(cfg)
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogger installs the process logger used by the package-level
// logger functions and slog.Default.
func initLogger(cfg *config.ServerConfig) error {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return err
	}
	logger.SetDefault(log)
	return nil
}

// watchConfig re-reads configFile on change and applies log.level. Other
// keys need a restart.
func watchConfig(configFile string, log *slog.Logger) (func() error, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(configFile); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(path string) {
		cfg, err := loadConfig(path)
		if err != nil {
			logger.Warn("config reload rejected", "path", path, "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			logger.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	w.StartAsync()
	return w.Stop, nil
}
