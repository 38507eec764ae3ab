package auth

import (
	"fmt"
	"os/exec"
	"runtime"
)

// BrowserOpener shows the consent page to the user.
type BrowserOpener interface {
	Open(url string) error
}

// OpenerFunc adapts a plain function to BrowserOpener.
type OpenerFunc func(url string) error

func (f OpenerFunc) Open(url string) error {
	return f(url)
}

// SystemBrowser launches the platform URL handler.
type SystemBrowser struct{}

func (SystemBrowser) Open(url string) error {
	cmd := browserCommand(runtime.GOOS, url)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	go cmd.Wait()
	return nil
}

func browserCommand(goos, url string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.Command("xdg-open", url)
	}
}
