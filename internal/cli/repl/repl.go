package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompt is printed before every line.
const Prompt = "shardkv> "

// ErrUnterminatedQuote is returned by SplitArgs for an open quote.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Executor runs one command line split into arguments.
type Executor func(ctx context.Context, args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	exec      Executor
	completer *Completer
	history   *History
}

// New creates a REPL. commands are offered for completion and help.
func New(input io.Reader, output io.Writer, history *History, exec Executor, commands ...string) *REPL {
	if history == nil {
		history = NewHistoryFile("")
	}
	return &REPL{
		input:     input,
		output:    output,
		exec:      exec,
		completer: NewCompleter(commands...),
		history:   history,
	}
}

// Run reads lines until EOF, exit, quit or ctx is done. History is loaded
// first and saved on return.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: cannot load history: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "warning: cannot save history: %v\n", err)
		}
	}()

	reader := bufio.NewReader(r.input)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(r.output, Prompt)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)

		line = strings.TrimSpace(line)
		if line == "" {
			if eof {
				fmt.Fprintln(r.output)
				return nil
			}
			continue
		}
		r.history.Add(line)

		if done := r.handle(ctx, line); done || eof {
			return nil
		}
	}
}

// handle runs one line and reports whether the loop should stop.
func (r *REPL) handle(ctx context.Context, line string) bool {
	args, err := SplitArgs(line)
	if err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
		return false
	}

	name := strings.ToLower(args[0])
	switch name {
	case "exit", "quit":
		return true
	case "help":
		fmt.Fprintf(r.output, "Commands: %s\n", strings.Join(r.completer.Commands(), ", "))
		return false
	}

	if !r.completer.Known(name) {
		fmt.Fprintf(r.output, "Error: unknown command %q", args[0])
		if s := r.completer.Complete(firstRune(name)); name != "" && len(s) > 0 {
			fmt.Fprintf(r.output, " (did you mean: %s?)", strings.Join(s, ", "))
		}
		fmt.Fprintln(r.output)
		return false
	}

	if err := r.exec(ctx, args); err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
	}
	return false
}

func firstRune(s string) string {
	for _, ch := range s {
		return string(ch)
	}
	return ""
}

// SplitArgs splits a line on whitespace. Double quotes group words and
// support \" and \\ escapes.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		escaped bool
		started bool
	)

	for _, ch := range line {
		switch {
		case escaped:
			cur.WriteRune(ch)
			escaped = false
		case ch == '\\' && inQuote:
			escaped = true
		case ch == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (ch == ' ' || ch == '\t'):
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(ch)
			started = true
		}
	}
	if inQuote {
		return nil, ErrUnterminatedQuote
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}
