package handler

import (
	"time"

	"github.com/yndnr/shardkv-go/internal/storage/shard"
)

// Response is the standard API response envelope.
// All JSON responses except /health and /metrics use this format.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the data of GET /stats.
type StatsResponse struct {
	ShardCount  int           `json:"shard_count"`
	TotalKeys   int64         `json:"total_keys"`
	QueueDepth  int           `json:"queue_depth"`
	Connections int           `json:"connections"`
	Uptime      string        `json:"uptime"`
	Shards      []shard.Stats `json:"shards"`
}
