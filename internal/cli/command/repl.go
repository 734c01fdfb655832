package command

import (
	"github.com/urfave/cli/v2"

	"github.com/lingtalfi/CSRFTools/internal/cli/repl"
)

// ReplCommand returns the interactive mode command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:   "repl",
		Usage:  "Interactive mode sharing one session across commands",
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	settings, err := ResolveSettings(c)
	if err != nil {
		return err
	}
	return repl.New(settings.NewClient(), settings.Formatter).Run()
}
