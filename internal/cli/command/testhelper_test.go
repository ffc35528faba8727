package command

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yndnr/shardkv-go/internal/server/httpserver"
	"github.com/yndnr/shardkv-go/internal/server/redisserver"
	"github.com/yndnr/shardkv-go/internal/storage/shard"
)

// testEnv is an in-process server with its admin endpoint.
type testEnv struct {
	redisAddr string
	adminURL  string
	config    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := shard.New(shard.Config{ShardCount: 4})
	cfg := redisserver.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := redisserver.New(cfg, store, nil, nil)
	require.NoError(t, srv.Start(context.Background()))

	admin := httptest.NewServer(httpserver.NewRouter(&httpserver.RouterConfig{
		Stats:       store,
		Connections: srv,
	}))

	t.Cleanup(func() {
		admin.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		_ = store.Close(ctx)
	})

	return &testEnv{
		redisAddr: srv.Addr().String(),
		adminURL:  admin.URL,
		config:    filepath.Join(t.TempDir(), "cli.yaml"),
	}
}

// run executes shardkv-cli against env with stdin as input.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = io.Discard

	full := []string{"shardkv-cli", "--config", e.config, "--server", e.redisAddr, "--admin", e.adminURL, "--timeout", "2s"}
	err := app.Run(append(full, args...))
	return out.String(), err
}
