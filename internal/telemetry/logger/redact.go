// Package logger provides structured logging for shardkv.
package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// Sensitive key patterns whose string values are never logged verbatim.
// Stored values are user data, so anything named like a value is masked.
var sensitiveKeyPatterns = []string{
	"value",
	"password",
	"secret",
	"credential",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// maxLoggedLen caps free-form protocol text copied into log entries.
const maxLoggedLen = 64

// redactSensitive replaces the value of attributes whose key suggests
// sensitive content.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	}

	// Handle nested groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// Truncate shortens untrusted text (such as a malformed request line)
// before it is logged. Longer input keeps its head and notes the size.
func Truncate(s string) string {
	if len(s) <= maxLoggedLen {
		return s
	}
	return s[:maxLoggedLen] + "...(" + strconv.Itoa(len(s)) + " bytes)"
}
