package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lingtalfi/CSRFTools/internal/cli/connection"
	"github.com/lingtalfi/CSRFTools/internal/cli/output"
)

// REPL is the interactive command loop.
type REPL struct {
	client    *connection.Client
	formatter output.Formatter
	input     io.Reader
	output    io.Writer
	completer *Completer
	history   *History
}

// New creates a REPL bound to the given client.
func New(client *connection.Client, formatter output.Formatter) *REPL {
	return &REPL{
		client:    client,
		formatter: formatter,
		input:     os.Stdin,
		output:    os.Stdout,
		completer: NewCompleter(),
		history:   NewHistory(),
	}
}

// Run starts the loop. It returns on EOF or an exit command.
func (r *REPL) Run() error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "history unavailable: %v\n", err)
	}
	defer r.history.Save()

	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, "csrf> ")

		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		if line == "exit" || line == "quit" {
			return nil
		}

		if err := r.execute(line); err != nil {
			fmt.Fprintf(r.output, "error: %v\n", err)
		}
	}
}

// execute dispatches one command line.
func (r *REPL) execute(line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	ctx := context.Background()

	switch cmd {
	case "issue":
		if len(args) != 1 {
			return fmt.Errorf("usage: issue <name>")
		}
		return r.issue(ctx, args[0])

	case "validate":
		if len(args) < 2 || len(args) > 3 {
			return fmt.Errorf("usage: validate <name> <value> [old|new]")
		}
		slot := "old"
		if len(args) == 3 {
			slot = args[2]
		}
		return r.validate(ctx, args[0], args[1], slot)

	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: delete <name>")
		}
		return r.deleteToken(ctx, args[0])

	case "session":
		id := r.client.SessionID()
		if id == "" {
			fmt.Fprintln(r.output, "no session")
			return nil
		}
		fmt.Fprintln(r.output, id)
		return nil

	case "destroy":
		return r.destroySession(ctx)

	case "health":
		return r.health(ctx)

	case "help":
		r.printHelp()
		return nil

	default:
		matches := r.completer.Complete(cmd)
		if len(matches) > 0 {
			return fmt.Errorf("unknown command %q (did you mean %s?)", cmd, strings.Join(matches, ", "))
		}
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
}

func (r *REPL) issue(ctx context.Context, name string) error {
	resp, err := r.client.Post(ctx, "/csrf/"+name, nil)
	if err != nil {
		return err
	}
	var data struct {
		Name  string `json:"name" yaml:"name"`
		Value string `json:"value" yaml:"value"`
	}
	if err := connection.ParseResponse(resp, &data); err != nil {
		return err
	}
	return r.formatter.Format(r.output, data)
}

func (r *REPL) validate(ctx context.Context, name, value, slot string) error {
	resp, err := r.client.Post(ctx, "/csrf/"+name+"/validate",
		map[string]string{"value": value, "slot": slot})
	if err != nil {
		return err
	}
	var data struct {
		Name  string `json:"name" yaml:"name"`
		Valid bool   `json:"valid" yaml:"valid"`
		Slot  string `json:"slot" yaml:"slot"`
	}
	if err := connection.ParseResponse(resp, &data); err != nil {
		return err
	}
	return r.formatter.Format(r.output, data)
}

func (r *REPL) deleteToken(ctx context.Context, name string) error {
	resp, err := r.client.Delete(ctx, "/csrf/"+name)
	if err != nil {
		return err
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}
	fmt.Fprintf(r.output, "token %q deleted\n", name)
	return nil
}

func (r *REPL) destroySession(ctx context.Context) error {
	resp, err := r.client.Delete(ctx, "/session")
	if err != nil {
		return err
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}
	fmt.Fprintln(r.output, "session destroyed")
	return nil
}

func (r *REPL) health(ctx context.Context) error {
	resp, err := r.client.Get(ctx, "/healthz")
	if err != nil {
		return err
	}
	var data struct {
		Status   string `json:"status" yaml:"status"`
		Version  string `json:"version" yaml:"version"`
		Sessions int    `json:"sessions" yaml:"sessions"`
	}
	if err := connection.ParseResponse(resp, &data); err != nil {
		return err
	}
	return r.formatter.Format(r.output, data)
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.output, `Commands:
  issue <name>                    issue a fresh token, rotating the previous one
  validate <name> <value> [slot]  check a value against the old (default) or new slot
  delete <name>                   remove a token entirely
  session                         show the current session id
  destroy                         destroy the server-side session
  health                          show server health
  help                            show this help
  exit                            leave the REPL
`)
}
