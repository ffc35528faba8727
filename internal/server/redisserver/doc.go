// Package redisserver serves the key space over a RESP subset.
//
// Requests are arrays of bulk strings; two commands are understood:
//
//	GET key        -> $<len>\r\n<value>\r\n, or $-1\r\n on a miss
//	SET key value  -> the value, echoed as a bulk string
//
// Each connection runs a session goroutine that collects every pipelined
// request already buffered into one shard.Batch, dispatches it to the
// shard store and flushes all replies at once, in request order, when the
// workers are done with it.
//
// Files:
//
//   - resp.go: frame decoding and reply encoding
//   - command.go: request to command mapping, reply writing
//   - session.go: per-connection state machine
//   - server.go: listener, connection cap, shutdown
//   - errors.go: sentinel errors and their classification
//
// Any malformed frame or unknown command ends the connection after a
// best-effort error reply ("-" prefixed lines).
package redisserver
