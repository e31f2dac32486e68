package browser

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// Opener opens a URL in the user's browser.
type Opener interface {
	Open(url string) error
}

// Browser launches the platform URL handler.
// When no handler can be started the URL is printed to Fallback instead.
type Browser struct {
	goos     string
	Fallback io.Writer
	start    func(name string, args ...string) error
}

// New returns a Browser for the running platform.
func New(fallback io.Writer) *Browser {
	return &Browser{goos: runtime.GOOS, Fallback: fallback, start: startDetached}
}

// Command returns the program and arguments used to open url on goos.
func Command(goos, url string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}

// Open starts the handler without waiting for it.
func (b *Browser) Open(url string) error {
	name, args := Command(b.goos, url)
	if err := b.start(name, args...); err != nil {
		if b.Fallback == nil {
			return fmt.Errorf("failed to open browser: %w", err)
		}
		_, _ = fmt.Fprintf(b.Fallback, "Please open a browser on: %s\n", url)
	}
	return nil
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
