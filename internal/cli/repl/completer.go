package repl

import (
	"sort"
	"strings"
)

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer for the given command names plus the
// built-in ones.
func NewCompleter(commands ...string) *Completer {
	all := append([]string{"help", "exit", "quit"}, commands...)
	sort.Strings(all)
	return &Completer{commands: all}
}

// Commands returns every known command name, sorted.
func (c *Completer) Commands() []string {
	return c.commands
}

// Complete returns the commands starting with prefix, case-insensitively.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Known reports whether name is a command.
func (c *Completer) Known(name string) bool {
	name = strings.ToLower(name)
	for _, cmd := range c.commands {
		if cmd == name {
			return true
		}
	}
	return false
}
