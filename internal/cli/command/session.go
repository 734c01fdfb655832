package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lingtalfi/CSRFTools/internal/cli/connection"
)

// SessionCommand returns the session subcommand group.
func SessionCommand() *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Inspect and destroy the client session",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the session id held by this client",
				Action: sessionShow,
			},
			{
				Name:   "destroy",
				Usage:  "Destroy the server-side session and its tokens",
				Action: sessionDestroy,
			},
		},
	}
}

func sessionShow(c *cli.Context) error {
	settings, err := ResolveSettings(c)
	if err != nil {
		return err
	}
	client := settings.NewClient()

	id := client.SessionID()
	if id == "" {
		fmt.Println("no session")
		return nil
	}
	return settings.Print(map[string]string{"session_id": id})
}

func sessionDestroy(c *cli.Context) error {
	settings, err := ResolveSettings(c)
	if err != nil {
		return err
	}
	client := settings.NewClient()

	if client.SessionID() == "" {
		return fmt.Errorf("no session to destroy")
	}

	resp, err := client.Delete(c.Context, "/session")
	if err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	fmt.Println("session destroyed")
	return nil
}
