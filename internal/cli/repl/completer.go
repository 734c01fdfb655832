package repl

import "strings"

// Completer provides command name completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the REPL command set.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{
			"issue", "validate", "delete",
			"session", "destroy",
			"health",
			"help", "exit", "quit",
		},
	}
}

// Complete returns the commands starting with prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
