package command

import (
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"

	"github.com/lingtalfi/CSRFTools/internal/cli/connection"
)

// TokenCommand returns the token subcommand group.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue, validate, and delete anti-forgery tokens",
		Subcommands: []*cli.Command{
			{
				Name:      "issue",
				Usage:     "Issue a fresh token value for a name, rotating any previous one",
				ArgsUsage: "<name>",
				Action:    tokenIssue,
			},
			{
				Name:      "validate",
				Usage:     "Check a submitted value against the stored token",
				ArgsUsage: "<name> <value>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "slot",
						Usage: "slot to check: old (previous value, default) or new (latest)",
						Value: "old",
					},
				},
				Action: tokenValidate,
			},
			{
				Name:      "delete",
				Usage:     "Remove a token entirely, both slots included",
				ArgsUsage: "<name>",
				Action:    tokenDelete,
			},
		},
	}
}

// tokenPath builds the API path for a token name, escaping it for use
// as a path segment.
func tokenPath(name string, suffix string) string {
	return "/csrf/" + url.PathEscape(name) + suffix
}

func requireName(c *cli.Context) (string, error) {
	name := c.Args().First()
	if name == "" {
		return "", fmt.Errorf("token name is required")
	}
	return name, nil
}

func tokenIssue(c *cli.Context) error {
	name, err := requireName(c)
	if err != nil {
		return err
	}

	settings, err := ResolveSettings(c)
	if err != nil {
		return err
	}
	client := settings.NewClient()

	resp, err := client.Post(c.Context, tokenPath(name, ""), nil)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	var data struct {
		Name  string `json:"name" yaml:"name"`
		Value string `json:"value" yaml:"value"`
	}
	if err := connection.ParseResponse(resp, &data); err != nil {
		return err
	}
	return settings.Print(data)
}

func tokenValidate(c *cli.Context) error {
	name, err := requireName(c)
	if err != nil {
		return err
	}
	value := c.Args().Get(1)
	if value == "" {
		return fmt.Errorf("token value is required")
	}

	settings, err := ResolveSettings(c)
	if err != nil {
		return err
	}
	client := settings.NewClient()

	body := map[string]string{
		"value": value,
		"slot":  c.String("slot"),
	}
	resp, err := client.Post(c.Context, tokenPath(name, "/validate"), body)
	if err != nil {
		return fmt.Errorf("validate token: %w", err)
	}

	var data struct {
		Name  string `json:"name" yaml:"name"`
		Valid bool   `json:"valid" yaml:"valid"`
		Slot  string `json:"slot" yaml:"slot"`
	}
	if err := connection.ParseResponse(resp, &data); err != nil {
		return err
	}
	if err := settings.Print(data); err != nil {
		return err
	}

	// Scripting contract: exit code mirrors the validation outcome.
	if !data.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func tokenDelete(c *cli.Context) error {
	name, err := requireName(c)
	if err != nil {
		return err
	}

	settings, err := ResolveSettings(c)
	if err != nil {
		return err
	}
	client := settings.NewClient()

	resp, err := client.Delete(c.Context, tokenPath(name, ""))
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	fmt.Printf("token %q deleted\n", name)
	return nil
}
