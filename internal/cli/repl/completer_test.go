package repl

import (
	"reflect"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter("get", "set", "stats", "version")

	tests := []struct {
		prefix string
		want   []string
	}{
		{"s", []string{"set", "stats"}},
		{"st", []string{"stats"}},
		{"G", []string{"get"}},
		{"e", []string{"exit"}},
		{"nonexistent", nil},
		{"", []string{"exit", "get", "help", "quit", "set", "stats", "version"}},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := c.Complete(tt.prefix); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCompleter_Known(t *testing.T) {
	c := NewCompleter("get")

	for _, name := range []string{"get", "GET", "help", "exit", "quit"} {
		if !c.Known(name) {
			t.Errorf("Known(%q) = false", name)
		}
	}
	for _, name := range []string{"ge", "del", ""} {
		if c.Known(name) {
			t.Errorf("Known(%q) = true", name)
		}
	}
}
