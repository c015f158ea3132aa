package main

import (
	"fmt"
	"strings"

	"github.com/abrezinsky/sportsday/internal/logger"
)

// opener is the part of browser.Launcher the shortcuts use
type opener interface {
	Admin() error
	Scoreboard() error
}

// keyActions runs the single-key shortcuts shared by every platform
type keyActions struct {
	launcher opener
	log      *logger.SlogLogger
	quit     func()
}

// handle performs the action bound to key and reports whether the
// listener should stop
func (k *keyActions) handle(key byte) bool {
	switch strings.ToLower(string(key)) {
	case "a":
		fmt.Printf("%sOpening admin page in browser...%s\n", cyan, reset)
		if err := k.launcher.Admin(); err != nil {
			fmt.Printf("%sError opening browser: %v%s\n", red, err, reset)
		}
	case "d":
		fmt.Printf("%sOpening scoreboard in browser...%s\n", cyan, reset)
		if err := k.launcher.Scoreboard(); err != nil {
			fmt.Printf("%sError opening browser: %v%s\n", red, err, reset)
		}
	case "h":
		if k.log.IsHTTPLoggingEnabled() {
			k.log.DisableHTTPLogging()
			fmt.Printf("%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			k.log.EnableHTTPLogging()
			fmt.Printf("%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		cycleLogLevel(k.log)
	case "q", "\x03":
		fmt.Printf("%sShutting down server...%s\n", yellow, reset)
		k.quit()
		return true
	case "?":
		printKeyboardHelp()
	}
	return false
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	next := map[string]string{
		"DEBUG": "info",
		"INFO":  "warn",
		"WARN":  "error",
		"ERROR": "debug",
	}[appLog.GetLevel().String()]
	if next == "" {
		next = "info"
	}

	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\n", green, yellow, next, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %sa%s      - Open admin page in browser\n", cyan, reset)
	fmt.Printf("    %sd%s      - Open scoreboard display in browser\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}
