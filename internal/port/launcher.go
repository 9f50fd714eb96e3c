package port

import "context"

// URLOpener opens a meeting URL on the local machine
type URLOpener interface {
	// Open starts browser with url. An empty browser means the system default handler.
	Open(ctx context.Context, browser, url string) error
}

// Editor opens a file for interactive editing and waits for it to close
type Editor interface {
	Edit(ctx context.Context, path string) error
}

// Prompter asks the user a yes/no question
type Prompter interface {
	Confirm(question string) (bool, error)
}
