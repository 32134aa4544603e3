package adapter

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// candidateBrowsers lists launchers to try, in order, per platform
var candidateBrowsers = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open", "sensible-browser", "x-www-browser", "wslview"},
	"windows": {"rundll32"},
}

// Browser opens web pages (terms, privacy policy, video pages) outside the terminal
type Browser struct {
	command string // configured browser command, empty for system default
	logger  *slog.Logger

	// start launches a process without waiting for it
	start    func(name string, args ...string) error
	lookPath func(name string) (string, error)
}

// NewBrowser creates a Browser. An empty command uses the platform default.
func NewBrowser(command string, logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{
		command:  command,
		logger:   logger,
		start:    startDetached,
		lookPath: exec.LookPath,
	}
}

func startDetached(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open launches rawURL in the configured browser or the system default
func (b *Browser) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", rawURL)
	}

	if b.command != "" {
		fields := strings.Fields(b.command)
		args := append(fields[1:], rawURL)
		b.logger.Info("opening with configured browser", "command", fields[0], "url", rawURL)
		return b.start(fields[0], args...)
	}

	candidates, ok := candidateBrowsers[runtime.GOOS]
	if !ok {
		candidates = candidateBrowsers["linux"]
	}

	for _, name := range candidates {
		if _, err := b.lookPath(name); err != nil {
			b.logger.Debug("browser launcher not available", "command", name, "error", err)
			continue
		}
		args := []string{rawURL}
		if name == "rundll32" {
			args = []string{"url.dll,FileProtocolHandler", rawURL}
		}
		if err := b.start(name, args...); err != nil {
			b.logger.Debug("browser launch failed", "command", name, "error", err)
			continue
		}
		b.logger.Info("opened in browser", "command", name, "url", rawURL)
		return nil
	}

	return fmt.Errorf("no browser launcher found")
}
