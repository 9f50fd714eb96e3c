//go:build !windows

package browser

import "os/exec"

func hideWindow(cmd *exec.Cmd) {}

func openDefault(goos, url string, start func(*exec.Cmd) error) error {
	name := "xdg-open"
	if goos == "darwin" {
		name = "open"
	}
	return start(exec.Command(name, url))
}
