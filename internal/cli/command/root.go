package command

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardkv-go/internal/cli/config"
	"github.com/yndnr/shardkv-go/internal/cli/connection"
	"github.com/yndnr/shardkv-go/internal/cli/output"
	"github.com/yndnr/shardkv-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "shardkv-cli",
		Usage:   "shardkv command-line client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			GetCommand(),
			SetCommand(),
			PipeCommand(),
			AdminCommand(),
			ShellCommand(),
		},
	}
}

// globalFlags returns the global CLI flags. None carries a default so the
// config file value survives unless a flag or env var is given.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			EnvVars: []string{"SHARDKV_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "RESP server address (default 127.0.0.1:6379)",
			EnvVars: []string{"SHARDKV_SERVER"},
		},
		&cli.StringFlag{
			Name:    "admin",
			Aliases: []string{"a"},
			Usage:   "admin HTTP address (default 127.0.0.1:9121)",
			EnvVars: []string{"SHARDKV_ADMIN"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json, yaml",
			EnvVars: []string{"SHARDKV_OUTPUT"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "dial and round-trip timeout (default 5s)",
			EnvVars: []string{"SHARDKV_TIMEOUT"},
		},
	}
}

// Settings are the resolved global options.
type Settings struct {
	Server  string
	Admin   string
	Format  output.Format
	Timeout time.Duration
}

// ResolveSettings merges the config file with env vars and flags.
func ResolveSettings(c *cli.Context) (*Settings, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	overrides := map[string]string{
		"server": c.String("server"),
		"admin":  c.String("admin"),
		"output": c.String("output"),
	}
	if c.IsSet("timeout") {
		overrides["timeout"] = c.Duration("timeout").String()
	}
	cfg = config.Merge(cfg, overrides)

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout == 0 {
		timeout = connection.DefaultTimeout
	}

	return &Settings{
		Server:  cfg.Server,
		Admin:   cfg.Admin,
		Format:  format,
		Timeout: timeout,
	}, nil
}

// render writes data to the app's writer in the selected format.
func render(c *cli.Context, format output.Format, data any) error {
	return output.NewFormatter(format).Format(c.App.Writer, data)
}

// PrintError prints an error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}
