package config

import "strings"

// Sanitize returns a normalized copy of cfg: surrounding whitespace is
// trimmed from addresses and the log level and format are lower-cased.
// The original is left untouched. Call it before Verify.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	out := *cfg
	out.Server.Redis.Addr = strings.TrimSpace(out.Server.Redis.Addr)
	out.Server.HTTP.Addr = strings.TrimSpace(out.Server.HTTP.Addr)
	out.Log.Level = strings.ToLower(strings.TrimSpace(out.Log.Level))
	out.Log.Format = strings.ToLower(strings.TrimSpace(out.Log.Format))
	return &out
}
