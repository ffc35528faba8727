package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardkv-go/internal/cli/connection"
	"github.com/yndnr/shardkv-go/internal/cli/output"
	"github.com/yndnr/shardkv-go/internal/infra/buildinfo"
	"github.com/yndnr/shardkv-go/internal/server/httpserver/handler"
)

// Stats wraps the /stats payload with a table layout.
type Stats handler.StatsResponse

// Table renders a summary row followed by one row per shard.
func (s Stats) Table() *output.Table {
	t := &output.Table{Headers: []string{"SHARD", "KEYS", "QUEUE", "EXECUTED"}}
	for _, sh := range s.Shards {
		t.AddRow(fmt.Sprint(sh.Index), fmt.Sprint(sh.Keys), fmt.Sprint(sh.QueueDepth), fmt.Sprint(sh.Executed))
	}
	t.AddRow("total", fmt.Sprint(s.TotalKeys), fmt.Sprint(s.QueueDepth),
		fmt.Sprintf("connections=%d uptime=%s", s.Connections, s.Uptime))
	return t
}

// AdminCommand returns the admin subcommand group.
func AdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Query the admin HTTP endpoint",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show per-shard statistics",
				Action: adminAction(fetchStats),
			},
			{
				Name:   "health",
				Usage:  "Check server health",
				Action: adminAction(fetchHealth),
			},
			{
				Name:   "version",
				Usage:  "Show server build information",
				Action: adminAction(fetchVersion),
			},
		},
	}
}

type fetchFunc func(ctx context.Context, c *connection.AdminClient) (any, error)

func adminAction(fetch fetchFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := ResolveSettings(c)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(c.Context, s.Timeout)
		defer cancel()

		data, err := fetch(ctx, connection.NewAdminClient(s.Admin, s.Timeout))
		if err != nil {
			return err
		}
		return render(c, s.Format, data)
	}
}

func fetchStats(ctx context.Context, c *connection.AdminClient) (any, error) {
	var s Stats
	if err := c.Fetch(ctx, "/stats", &s); err != nil {
		return nil, err
	}
	return s, nil
}

func fetchHealth(ctx context.Context, c *connection.AdminClient) (any, error) {
	var h handler.HealthResponse
	if err := c.Fetch(ctx, "/health", &h); err != nil {
		return nil, err
	}
	return h, nil
}

func fetchVersion(ctx context.Context, c *connection.AdminClient) (any, error) {
	var v buildinfo.Info
	if err := c.Fetch(ctx, "/version", &v); err != nil {
		return nil, err
	}
	return v, nil
}
