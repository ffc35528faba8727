package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardkv-go/internal/cli/connection"
	"github.com/yndnr/shardkv-go/internal/cli/repl"
)

// PipeCommand returns the pipe command.
func PipeCommand() *cli.Command {
	return &cli.Command{
		Name:      "pipe",
		Usage:     "Send GET/SET lines pipelined on one connection",
		ArgsUsage: "[FILE]",
		Description: "Reads one command per line (\"GET key\" or \"SET key value\", values may be\n" +
			"double-quoted) from FILE or stdin, writes them all before reading any reply,\n" +
			"and prints the replies in order. Blank lines and lines starting with # are skipped.",
		Action: pipeAction,
	}
}

func pipeAction(c *cli.Context) error {
	s, err := ResolveSettings(c)
	if err != nil {
		return err
	}

	in := c.App.Reader
	if path := c.Args().First(); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	cmds, err := ReadPipeline(in)
	if err != nil {
		return err
	}
	if len(cmds) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Context, s.Timeout)
	defer cancel()

	client, err := connection.Dial(ctx, s.Server, s.Timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	replies, err := client.Pipeline(ctx, cmds)
	results := make(Results, 0, len(replies))
	for i, r := range replies {
		results = append(results, newResult(cmds[i], r))
	}
	if len(results) > 0 {
		if rerr := render(c, s.Format, results); rerr != nil && err == nil {
			err = rerr
		}
	}
	return err
}

// ReadPipeline parses GET/SET lines. Commands are checked locally because the
// server drops a whole burst when one command in it is invalid.
func ReadPipeline(r io.Reader) ([][]string, error) {
	var cmds [][]string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		args, err := repl.SplitArgs(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if err := checkCommand(args); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		cmds = append(cmds, args)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cmds, nil
}

func checkCommand(args []string) error {
	switch strings.ToUpper(args[0]) {
	case "GET":
		if len(args) != 2 {
			return fmt.Errorf("GET takes 1 argument, got %d", len(args)-1)
		}
	case "SET":
		if len(args) != 3 {
			return fmt.Errorf("SET takes 2 arguments, got %d", len(args)-1)
		}
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	if args[1] == "" {
		return fmt.Errorf("empty key")
	}
	return nil
}
