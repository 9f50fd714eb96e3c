package browser

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Opener launches meeting URLs. The browser process is started and left
// running; Open does not wait for it.
type Opener struct {
	log   *zap.Logger
	out   io.Writer
	goos  string
	start func(cmd *exec.Cmd) error
}

func NewOpener(log *zap.Logger, out io.Writer) *Opener {
	return &Opener{
		log:   log,
		out:   out,
		goos:  runtime.GOOS,
		start: startDetached,
	}
}

func (o *Opener) Open(ctx context.Context, browser, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if browser == "" {
		o.log.Debug("opening with system handler", zap.String("url", url))
		fmt.Fprintf(o.out, "Opening %s\n", url)
		return errors.Wrap(openDefault(o.goos, url, o.start), "open url")
	}

	line := commandLine(o.goos, browser)
	fmt.Fprintf(o.out, "Running '%s %s'\n", line, url)
	o.log.Debug("starting browser", zap.String("command", line), zap.String("url", url))
	if err := o.start(browserCommand(o.goos, line, url)); err != nil {
		return errors.Wrapf(err, "run %s", line)
	}
	return nil
}

// commandLine is the shell command that precedes the URL. On macOS the
// setting names an application rather than an executable.
func commandLine(goos, browser string) string {
	if goos == "darwin" {
		return fmt.Sprintf("open -a '%s'", browser)
	}
	return browser
}

func browserCommand(goos, line, url string) *exec.Cmd {
	if goos == "windows" {
		return exec.Command("cmd", "/C", line+" "+url)
	}
	return exec.Command("sh", "-c", line+" "+url)
}

func startDetached(cmd *exec.Cmd) error {
	hideWindow(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
