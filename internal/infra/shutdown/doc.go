// Package shutdown provides graceful shutdown for shardkv-server.
//
// Hooks are registered in start-up order and run in reverse, so the last
// component started is the first one stopped:
//
//	h := shutdown.NewHandler(30*time.Second, logger)
//	h.OnShutdown("store", store.Close)
//	h.OnShutdown("redis", redisServer.Shutdown)
//	err := h.Wait() // blocks until SIGINT/SIGTERM or h.Trigger
package shutdown
