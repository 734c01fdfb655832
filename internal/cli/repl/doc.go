// Package repl provides the interactive mode for csrfctl.
//
//   - repl.go: main loop and command dispatch
//   - completer.go: prefix completion for command names
//   - history.go: command history persistence
//
// The REPL keeps one client, so every command in a session shares the
// same session cookie; that makes the issue/validate rotation easy to
// observe by hand.
package repl
