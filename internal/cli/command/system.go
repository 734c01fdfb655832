package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lingtalfi/CSRFTools/internal/cli/connection"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:  "system",
		Usage: "Server health and status",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Show server health, version, and live session count",
				Action: systemHealth,
			},
			{
				Name:   "ready",
				Usage:  "Check whether the server accepts requests",
				Action: systemReady,
			},
		},
	}
}

func systemHealth(c *cli.Context) error {
	settings, err := ResolveSettings(c)
	if err != nil {
		return err
	}
	client := settings.NewClient()

	resp, err := client.Get(c.Context, "/healthz")
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	var data struct {
		Status   string `json:"status" yaml:"status"`
		Version  string `json:"version" yaml:"version"`
		Sessions int    `json:"sessions" yaml:"sessions"`
		Time     string `json:"time" yaml:"time"`
	}
	if err := connection.ParseResponse(resp, &data); err != nil {
		return err
	}
	return settings.Print(data)
}

func systemReady(c *cli.Context) error {
	settings, err := ResolveSettings(c)
	if err != nil {
		return err
	}
	client := settings.NewClient()

	resp, err := client.Get(c.Context, "/readyz")
	if err != nil {
		return fmt.Errorf("readiness check: %w", err)
	}

	var data map[string]string
	if err := connection.ParseResponse(resp, &data); err != nil {
		return err
	}
	return settings.Print(data)
}
