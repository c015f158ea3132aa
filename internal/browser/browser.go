// Package browser opens pages of the running server in the desktop browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Commander is an interface for executing commands (for testing)
type Commander interface {
	Start(name string, args ...string) error
}

// RealCommander executes actual commands
type RealCommander struct{}

// Start runs the command without waiting for it
func (RealCommander) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Launcher opens pages below a base URL
type Launcher struct {
	baseURL   string
	commander Commander
	goos      string
}

// New returns a launcher for the current platform
func New(baseURL string) *Launcher {
	return NewWithCommander(baseURL, RealCommander{}, runtime.GOOS)
}

// NewWithCommander returns a launcher using commander as if running on goos
func NewWithCommander(baseURL string, commander Commander, goos string) *Launcher {
	return &Launcher{
		baseURL:   strings.TrimRight(baseURL, "/"),
		commander: commander,
		goos:      goos,
	}
}

// Open opens path, e.g. "/admin", relative to the base URL
func (l *Launcher) Open(path string) error {
	target, err := url.JoinPath(l.baseURL, path)
	if err != nil {
		return fmt.Errorf("building url for %q: %w", path, err)
	}
	name, args, err := openCommand(l.goos, target)
	if err != nil {
		return err
	}
	return l.commander.Start(name, args...)
}

// Scoreboard opens the public scoreboard, the page left running on the
// projector during the day
func (l *Launcher) Scoreboard() error {
	return l.Open("/")
}

// Admin opens the admin dashboard
func (l *Launcher) Admin() error {
	return l.Open("/admin")
}

func openCommand(goos, target string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	case "darwin":
		return "open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
