package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validFormats = map[string]bool{
	"json": true,
	"text": true,
}

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if cfg.Store.ShardCount < 0 {
		return fmt.Errorf("store.shard_count must be >= 0, got %d", cfg.Store.ShardCount)
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Redis.Addr == "" {
		return errors.New("server.redis.addr is required")
	}
	if err := verifyAddr("server.redis.addr", cfg.Redis.Addr); err != nil {
		return err
	}
	if cfg.HTTP.Addr != "" {
		if err := verifyAddr("server.http.addr", cfg.HTTP.Addr); err != nil {
			return err
		}
		if cfg.HTTP.Addr == cfg.Redis.Addr {
			return fmt.Errorf("server.http.addr and server.redis.addr conflict: %s", cfg.HTTP.Addr)
		}
	}

	r := &cfg.Redis
	switch {
	case r.ReadTimeout < 0:
		return errors.New("server.redis.read_timeout must be >= 0")
	case r.WriteTimeout < 0:
		return errors.New("server.redis.write_timeout must be >= 0")
	case r.IdleTimeout < 0:
		return errors.New("server.redis.idle_timeout must be >= 0")
	case r.RateLimit < 0:
		return errors.New("server.redis.rate_limit must be >= 0")
	case r.MaxConnections < 0:
		return errors.New("server.redis.max_connections must be >= 0")
	}
	return nil
}

func verifyAddr(key, addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%s: invalid address %q: %w", key, addr, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("%s: invalid port %q", key, port)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !validLevels[cfg.Level] {
		return fmt.Errorf("log.level: unknown level %q", cfg.Level)
	}
	if !validFormats[cfg.Format] {
		return fmt.Errorf("log.format: unknown format %q", cfg.Format)
	}
	return nil
}
