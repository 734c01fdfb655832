package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lingtalfi/CSRFTools/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the csrfctl configuration file",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:  "set",
				Usage: "Persist a setting (server, output, cookie_file)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "server", Usage: "csrfd server address"},
					&cli.StringFlag{Name: "output", Usage: "default output format"},
					&cli.StringFlag{Name: "cookie-file", Usage: "session cookie file path"},
				},
				Action: configSet,
			},
			{
				Name:   "path",
				Usage:  "Print the config file location",
				Action: configPath,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	settings, err := ResolveSettings(c)
	if err != nil {
		return err
	}
	return settings.Print(settings.Config)
}

func configSet(c *cli.Context) error {
	path := c.String("config")

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	config.Merge(cfg, nil, map[string]string{
		"server":      c.String("server"),
		"output":      c.String("output"),
		"cookie_file": c.String("cookie-file"),
	})

	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Println("configuration saved")
	return nil
}

func configPath(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fmt.Println(path)
	return nil
}
