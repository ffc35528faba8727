// Package connection provides the shardkv-cli transports.
//
// This package holds the two ways the CLI talks to a server:
//
//   - client.go: RESP client for GET/SET, single requests and pipelines
//   - resp.go: multibulk request encoder and reply decoder
//   - manager.go: lazily dialed, reusable client for interactive mode
//   - http.go: admin HTTP client (/stats, /health, /version)
//
// The server closes a connection after replying with an error, so a Client
// that has seen a ServerError or an I/O failure is marked broken and must be
// redialed.
package connection
