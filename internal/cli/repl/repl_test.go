package repl

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) exec(_ context.Context, args []string) error {
	r.calls = append(r.calls, args)
	return r.err
}

func newTestREPL(input string, rec *recorder) (*REPL, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return New(strings.NewReader(input), out, NewHistoryFile(""), rec.exec, "get", "set", "stats"), out
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\nget never\n"},
		{"quit command", "QUIT\nget never\n"},
		{"EOF", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			r, _ := newTestREPL(tt.input, rec)
			if err := r.Run(context.Background()); err != nil {
				t.Errorf("Run() returned error: %v", err)
			}
			if len(rec.calls) != 0 {
				t.Errorf("unexpected commands executed: %q", rec.calls)
			}
		})
	}
}

func TestREPL_Run_Dispatches(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("\n  set greeting \"hello world\"  \nGET greeting\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := [][]string{{"set", "greeting", "hello world"}, {"GET", "greeting"}}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %q, want %q", rec.calls, want)
	}
	if n := strings.Count(out.String(), Prompt); n != 4 {
		t.Errorf("printed %d prompts, want 4", n)
	}
}

func TestREPL_Run_LastLineWithoutNewline(t *testing.T) {
	rec := &recorder{}
	r, _ := newTestREPL("get k", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(rec.calls) != 1 {
		t.Errorf("calls = %q, want one", rec.calls)
	}
}

func TestREPL_Run_Errors(t *testing.T) {
	rec := &recorder{err: errors.New("boom")}
	r, out := newTestREPL("get k\nsett k v\nxyz\nset \"open\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	text := out.String()
	for _, want := range []string{
		"Error: boom",
		`unknown command "sett" (did you mean: set, stats?)`,
		`unknown command "xyz"` + "\n",
		"Error: unterminated quote",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if len(rec.calls) != 1 {
		t.Errorf("calls = %q, want only the first get", rec.calls)
	}
}

func TestREPL_Run_Help(t *testing.T) {
	r, out := newTestREPL("help\n", &recorder{})
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Commands: exit, get, help, quit, set, stats") {
		t.Errorf("help output = %q", out.String())
	}
}

func TestREPL_Run_CancelledContext(t *testing.T) {
	rec := &recorder{}
	r, _ := newTestREPL("get k\n", rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("calls = %q, want none", rec.calls)
	}
}

func TestREPL_Run_SavesHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	rec := &recorder{}
	r := New(strings.NewReader("get a\nset a 1\nexit\n"), &bytes.Buffer{}, NewHistoryFile(path), rec.exec, "get", "set")

	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	h := NewHistoryFile(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}
	if h.Len() != 3 || h.Get(0) != "exit" || h.Get(2) != "get a" {
		t.Errorf("saved history = %q", h.entries)
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"get key", []string{"get", "key"}, false},
		{"  set\tk   v ", []string{"set", "k", "v"}, false},
		{`set k "two words"`, []string{"set", "k", "two words"}, false},
		{`set k ""`, []string{"set", "k", ""}, false},
		{`set k "say \"hi\" \\o/"`, []string{"set", "k", `say "hi" \o/`}, false},
		{`set k ab"c d"e`, []string{"set", "k", "abc de"}, false},
		{`set k "open`, nil, true},
		{"", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := SplitArgs(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitArgs(%q) error = %v", tt.line, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArgs(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}
