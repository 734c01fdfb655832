// Package command provides the csrfctl command definitions.
//
// Commands are built on urfave/cli/v2:
//
//   - root.go: root command, global flags, settings resolution
//   - token.go: token issue / validate / delete
//   - session.go: session show / destroy
//   - system.go: system health / ready
//   - config.go: CLI configuration management
//
// Every command follows the same pattern: resolve settings, call the
// server, format the result with the selected output formatter.
package command
