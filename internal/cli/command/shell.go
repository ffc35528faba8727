package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardkv-go/internal/cli/connection"
	"github.com/yndnr/shardkv-go/internal/cli/output"
	"github.com/yndnr/shardkv-go/internal/cli/repl"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Start an interactive session",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "do not read or write ~/.shardkv/history",
			},
		},
		Action: shellAction,
	}
}

func shellAction(c *cli.Context) error {
	s, err := ResolveSettings(c)
	if err != nil {
		return err
	}

	sh := newShell(s, c.App.Writer)
	defer sh.close()

	history := repl.NewHistory()
	if c.Bool("no-history") {
		history = repl.NewHistoryFile("")
	}

	fmt.Fprintf(c.App.Writer, "Connected to %s. Type help for commands.\n", s.Server)
	r := repl.New(c.App.Reader, c.App.Writer, history, sh.exec, shellCommands...)
	return r.Run(c.Context)
}

var shellCommands = []string{"get", "set", "stats", "health", "version"}

// shell runs REPL lines over one reusable connection.
type shell struct {
	mgr     *connection.Manager
	admin   *connection.AdminClient
	format  output.Format
	timeout time.Duration
	out     io.Writer
}

func newShell(s *Settings, out io.Writer) *shell {
	return &shell{
		mgr:     connection.NewManager(s.Server, s.Timeout),
		admin:   connection.NewAdminClient(s.Admin, s.Timeout),
		format:  s.Format,
		timeout: s.Timeout,
		out:     out,
	}
}

func (sh *shell) close() {
	_ = sh.mgr.Close()
}

func (sh *shell) exec(ctx context.Context, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, sh.timeout)
	defer cancel()

	name := strings.ToLower(args[0])
	switch name {
	case "stats", "health", "version":
		fetch := map[string]fetchFunc{
			"stats":   fetchStats,
			"health":  fetchHealth,
			"version": fetchVersion,
		}[name]
		data, err := fetch(ctx, sh.admin)
		if err != nil {
			return err
		}
		return output.NewFormatter(sh.format).Format(sh.out, data)
	}

	if err := checkCommand(args); err != nil {
		return err
	}
	client, err := sh.mgr.Client(ctx)
	if err != nil {
		return err
	}
	reply, err := client.Do(ctx, args...)
	if err != nil {
		var serr *connection.ServerError
		if errors.As(err, &serr) {
			return fmt.Errorf("%s (connection closed by server, will reconnect)", serr.Message)
		}
		return err
	}
	return output.NewFormatter(sh.format).Format(sh.out, newResult(args, reply))
}
