package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/hotmark/log"
)

const defaultEditor = "vi"

// editVarsCommand is a [tea.ExecCommand] that opens the REPL variables as
// YAML in the user's editor. A document that fails to decode is offered
// for editing again until the user declines. An empty document cancels the
// edit and leaves newEnv nil.
type editVarsCommand struct {
	env     map[string]any
	newEnv  map[string]any
	ctxFunc func() context.Context
	logger  log.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (c *editVarsCommand) SetStdin(r io.Reader) { c.stdin = r }
func (c *editVarsCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editVarsCommand) SetStderr(w io.Writer) { c.stderr = w }

func (c *editVarsCommand) Run() error {
	ctx := c.ctxFunc()

	doc, err := yaml.MarshalContext(ctx, c.env, yaml.Indent(2))
	if err != nil {
		return ErrEncodeVars.Wrap(err)
	}

	f, err := os.CreateTemp("", "hotmark-vars-*.yaml")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	_, err = f.Write(doc)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	// One scanner serves every prompt so no buffered answer is lost.
	answers := bufio.NewScanner(c.stdin)

	for {
		if doc, err = c.edit(ctx, path); err != nil || len(bytes.TrimSpace(doc)) == 0 {
			return err
		}

		env, err := decodeVars(ctx, doc)

		c.logger.TraceContext(ctx, "repl edit decoded",
			slog.Int("bytes", len(doc)),
			slog.Bool("ok", err == nil),
		)

		if err == nil {
			c.newEnv = env

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", err)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		if !answers.Scan() || isNo(answers.Text()) {
			return ErrEditDeclined
		}
	}
}

// edit runs the editor on path and returns the saved content.
func (c *editVarsCommand) edit(ctx context.Context, path string) ([]byte, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = defaultEditor
	}

	// The editor may carry arguments, as in "code --wait".
	argv := append(strings.Fields(editor), path)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.stdin, c.stdout, c.stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}

// decodeVars decodes a YAML mapping of variables. An explicit null
// document is an empty mapping.
func decodeVars(ctx context.Context, doc []byte) (map[string]any, error) {
	var env map[string]any
	if err := yaml.UnmarshalContext(ctx, doc, &env); err != nil {
		return nil, ErrDecodeVars.Wrap(err)
	}

	if env == nil {
		env = map[string]any{}
	}

	return env, nil
}

func isNo(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "n", "no":
		return true
	default:
		return false
	}
}
