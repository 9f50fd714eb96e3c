package terminal

import (
	"context"
	"io"
	"os/exec"
	"runtime"

	"github.com/pkg/errors"
)

// Editor runs an editor command on a file, attached to the terminal.
type Editor struct {
	command string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	run     func(*exec.Cmd) error
}

func NewEditor(command string, stdin io.Reader, stdout, stderr io.Writer) *Editor {
	return &Editor{
		command: command,
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		run:     (*exec.Cmd).Run,
	}
}

// Edit blocks until the editor exits. The command goes through the shell so
// settings like "code --wait" work.
func (e *Editor) Edit(ctx context.Context, path string) error {
	line := e.command + " " + path
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", line)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", line)
	}
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	if err := e.run(cmd); err != nil {
		return errors.Wrap(err, "could not edit configuration")
	}
	return nil
}
