package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	ctx = WithLogger(ctx, l)

	retrieved := FromContext(ctx)
	if retrieved == nil {
		t.Fatal("FromContext returned nil")
	}

	retrieved.Info("test message")

	if buf.Len() == 0 {
		t.Error("Logger from context should produce output")
	}
}

func TestFromContext_Default(t *testing.T) {
	ctx := context.Background()

	// Should return default logger when none is set
	l := FromContext(ctx)
	if l == nil {
		t.Error("FromContext should return default logger, got nil")
	}
}

func TestWithRequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "req-12345"

	ctx = WithRequestID(ctx, requestID)

	retrieved := RequestIDFromContext(ctx)
	if retrieved != requestID {
		t.Errorf("RequestIDFromContext() = %q, want %q", retrieved, requestID)
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	ctx := context.Background()

	retrieved := RequestIDFromContext(ctx)
	if retrieved != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty string", retrieved)
	}
}

func TestWithConnID(t *testing.T) {
	ctx := context.Background()
	connID := "conn-67890"

	ctx = WithConnID(ctx, connID)

	retrieved := ConnIDFromContext(ctx)
	if retrieved != connID {
		t.Errorf("ConnIDFromContext() = %q, want %q", retrieved, connID)
	}
}

func TestConnIDFromContext_Empty(t *testing.T) {
	ctx := context.Background()

	retrieved := ConnIDFromContext(ctx)
	if retrieved != "" {
		t.Errorf("ConnIDFromContext() = %q, want empty string", retrieved)
	}
}

func TestL_WithRequestID(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	ctx = WithLogger(ctx, l)
	ctx = WithRequestID(ctx, "req-12345")

	// L() should enrich with request ID
	enrichedLogger := L(ctx)
	enrichedLogger.Info("test message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	reqID, ok := logEntry["request_id"].(string)
	if !ok || reqID != "req-12345" {
		t.Errorf("Expected request_id='req-12345', got %v", logEntry["request_id"])
	}
}

func TestL_WithConnID(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	ctx = WithLogger(ctx, l)
	ctx = WithConnID(ctx, "conn-67890")

	enrichedLogger := L(ctx)
	enrichedLogger.Info("test message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	connID, ok := logEntry["conn_id"].(string)
	if !ok || connID != "conn-67890" {
		t.Errorf("Expected conn_id='conn-67890', got %v", logEntry["conn_id"])
	}
}

func TestL_WithBothIDs(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	ctx = WithLogger(ctx, l)
	ctx = WithRequestID(ctx, "req-12345")
	ctx = WithConnID(ctx, "conn-67890")

	enrichedLogger := L(ctx)
	enrichedLogger.Info("test message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if reqID, ok := logEntry["request_id"].(string); !ok || reqID != "req-12345" {
		t.Errorf("Expected request_id='req-12345', got %v", logEntry["request_id"])
	}

	if connID, ok := logEntry["conn_id"].(string); !ok || connID != "conn-67890" {
		t.Errorf("Expected conn_id='conn-67890', got %v", logEntry["conn_id"])
	}
}

func TestL_NoIDs(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	ctx = WithLogger(ctx, l)

	// L() without IDs should just return the logger
	enrichedLogger := L(ctx)
	enrichedLogger.Info("test message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	// Should not have request_id or conn_id
	if _, ok := logEntry["request_id"]; ok {
		t.Error("Should not have request_id when not set")
	}

	if _, ok := logEntry["conn_id"]; ok {
		t.Error("Should not have conn_id when not set")
	}
}

func TestContextKeyCollision(t *testing.T) {
	// Test that our context keys don't collide with each other
	ctx := context.Background()

	ctx = WithRequestID(ctx, "req-123")
	ctx = WithConnID(ctx, "conn-456")

	// Both should be retrievable
	if reqID := RequestIDFromContext(ctx); reqID != "req-123" {
		t.Errorf("RequestID collision, got %q", reqID)
	}

	if connID := ConnIDFromContext(ctx); connID != "conn-456" {
		t.Errorf("ConnID collision, got %q", connID)
	}
}

func TestL_WrappedConnectionLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithConnID(context.Background(), "01HCONN")
	ctx = WithLogger(ctx, Wrap(base).With("remote", "127.0.0.1:5000"))

	L(ctx).WithContext(ctx).Info("connection opened")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if entry["conn_id"] != "01HCONN" {
		t.Errorf("conn_id = %v, want 01HCONN", entry["conn_id"])
	}
	if entry["remote"] != "127.0.0.1:5000" {
		t.Errorf("remote = %v, want 127.0.0.1:5000", entry["remote"])
	}
}

func TestWrap_Nil(t *testing.T) {
	if Wrap(nil) != Default() {
		t.Error("Wrap(nil) should return the default logger")
	}
}
