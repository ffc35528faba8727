package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardkv-go/internal/cli/connection"
	"github.com/yndnr/shardkv-go/internal/cli/output"
)

// Result is one command and its reply.
type Result struct {
	Command string `json:"command"`
	Key     string `json:"key"`
	Value   string `json:"value"`
	Nil     bool   `json:"nil" table:"-"`
}

func newResult(args []string, r connection.Reply) Result {
	res := Result{Command: args[0], Value: r.String(), Nil: r.Nil}
	if len(args) > 1 {
		res.Key = args[1]
	}
	if r.Nil {
		res.Value = ""
	}
	return res
}

// Table renders results, showing misses as (nil).
func (r Result) Table() *output.Table {
	return resultsTable([]Result{r})
}

// Results is a list of results rendered as one table.
type Results []Result

// Table renders every result as a row.
func (rs Results) Table() *output.Table {
	return resultsTable(rs)
}

func resultsTable(rs []Result) *output.Table {
	t := &output.Table{Headers: []string{"COMMAND", "KEY", "VALUE"}}
	for _, r := range rs {
		v := r.Value
		if r.Nil {
			v = "(nil)"
		}
		t.AddRow(r.Command, r.Key, v)
	}
	return t
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Read a key",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: get KEY")
			}
			return runSingle(c, "GET", c.Args().First())
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Write a key",
		ArgsUsage: "KEY VALUE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("usage: set KEY VALUE")
			}
			return runSingle(c, "SET", c.Args().Get(0), c.Args().Get(1))
		},
	}
}

func runSingle(c *cli.Context, args ...string) error {
	s, err := ResolveSettings(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, s.Timeout)
	defer cancel()

	client, err := connection.Dial(ctx, s.Server, s.Timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	reply, err := client.Do(ctx, args...)
	if err != nil {
		return err
	}
	return render(c, s.Format, newResult(args, reply))
}
