package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/lingtalfi/CSRFTools/internal/cli/config"
	"github.com/lingtalfi/CSRFTools/internal/cli/connection"
	"github.com/lingtalfi/CSRFTools/internal/cli/output"
	"github.com/lingtalfi/CSRFTools/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "csrfctl",
		Usage:   "csrfd command-line client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			TokenCommand(),
			SessionCommand(),
			SystemCommand(),
			ConfigCommand(),
			ReplCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "csrfd server address (e.g. localhost:5317)",
			EnvVars: []string{"CSRFTOOLS_SERVER"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json, yaml",
			EnvVars: []string{"CSRFTOOLS_OUTPUT"},
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "path to the csrfctl config file",
			EnvVars: []string{"CSRFTOOLS_CLI_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "cookie-file",
			Usage: "session cookie file, overrides the configured path",
		},
	}
}

// Settings are the resolved per-invocation settings: config file values
// overridden by environment and flags.
type Settings struct {
	Config    *config.CLIConfig
	Formatter output.Formatter
}

// ResolveSettings loads the config file and applies flag overrides.
func ResolveSettings(c *cli.Context) (*Settings, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	config.Merge(cfg, nil, map[string]string{
		"server":      c.String("server"),
		"output":      c.String("output"),
		"cookie_file": c.String("cookie-file"),
	})

	return &Settings{
		Config:    cfg,
		Formatter: output.NewFormatter(output.Format(cfg.Output)),
	}, nil
}

// NewClient builds the HTTP client from resolved settings.
func (s *Settings) NewClient() *connection.Client {
	return connection.NewClient(s.Config.Server, s.Config.CookieFile)
}

// Print formats data to stdout with the selected formatter.
func (s *Settings) Print(data any) error {
	return s.Formatter.Format(os.Stdout, data)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
