// Package config defines the server configuration structure.
package config

import (
	"reflect"
	"time"
)

// ServerConfig is the root configuration for shardkv-server.
type ServerConfig struct {
	Server ServerSection `koanf:"server"`
	Store  StoreSection  `koanf:"store"`
	Log    LogSection    `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
	HTTP  HTTPConfig  `koanf:"http"`
}

// RedisConfig configures the RESP listener.
type RedisConfig struct {
	Addr string `koanf:"addr"`

	// ReadTimeout bounds reading the rest of a burst once its first byte
	// has arrived. Zero disables it.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds flushing the replies of one batch.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// IdleTimeout closes connections that send nothing for this long.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// RateLimit is the number of commands per second allowed on one
	// connection. Zero means unlimited.
	RateLimit int `koanf:"rate_limit"`

	// MaxConnections caps concurrent client connections. Zero means
	// unlimited.
	MaxConnections int `koanf:"max_connections"`
}

// HTTPConfig configures the admin HTTP endpoint. An empty Addr disables it.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// StoreSection configures the sharded key space.
type StoreSection struct {
	// ShardCount is the number of shards. Zero picks half the CPUs.
	ShardCount int `koanf:"shard_count"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Keys returns every configuration key in dotted form, e.g.
// "store.shard_count". The loader uses it to map environment variables onto
// keys that contain underscores.
func Keys() []string {
	return collectKeys(reflect.TypeOf(ServerConfig{}), "")
}

func collectKeys(t reflect.Type, prefix string) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("koanf")
		if tag == "" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if f.Type.Kind() == reflect.Struct && f.Type != reflect.TypeOf(time.Duration(0)) {
			keys = append(keys, collectKeys(f.Type, key)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
