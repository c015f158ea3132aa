package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abrezinsky/sportsday/internal/app"
	"github.com/abrezinsky/sportsday/internal/auth"
	"github.com/abrezinsky/sportsday/internal/browser"
	"github.com/abrezinsky/sportsday/internal/config"
	"github.com/abrezinsky/sportsday/internal/logger"
	"github.com/abrezinsky/sportsday/internal/scoring"
	"github.com/abrezinsky/sportsday/web"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	blue   = "\033[34m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var version = "dev"

var logo = []string{
	`   ____                   _         ____              `,
	`  / ___| _ __   ___  _ __| |_ ___  |  _ \  __ _ _   _ `,
	`  \___ \| '_ \ / _ \| '__| __/ __| | | | |/ _' | | | |`,
	`   ___) | |_) | (_) | |  | |_\__ \ | |_| | (_| | |_| |`,
	`  |____/| .__/ \___/|_|   \__|___/ |____/ \__,_|\__, |`,
	`        |_|                                     |___/ `,
}

// showBanner prints the logo with a strip in the house colors below it
func showBanner() {
	width := 58
	border := strings.Repeat("═", width)

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Printf("  %s║%s%-58s%s║%s\n", cyan, yellow, line, cyan, reset)
	}
	fmt.Printf("  %s╠%s╣%s\n", cyan, border, reset)

	stripe := ""
	for _, c := range []string{red, blue, green, yellow} {
		stripe += c + strings.Repeat("█", width/4) + reset
	}
	stripe += strings.Repeat(" ", width-4*(width/4))
	fmt.Printf("  %s║%s%s║%s\n", cyan, stripe, cyan, reset)
	fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
}

// overrides holds flags that replace values from the environment when set
type overrides struct {
	addr      string
	db        string
	adminPw   string
	logLevel  string
	logFormat string
	catalog   string
	mode      string
}

func (o overrides) apply(cfg *config.Config, set map[string]bool) error {
	if set["addr"] {
		cfg.HTTPAddr = o.addr
	}
	if set["db"] {
		cfg.DBPath = o.db
	}
	if set["adminpw"] {
		cfg.AdminPassword = o.adminPw
	}
	if set["loglevel"] {
		cfg.LogLevel = logger.ParseLevel(o.logLevel)
	}
	if set["logformat"] {
		cfg.LogFormat = o.logFormat
	}
	if set["mode"] {
		cfg.ScoringMode = scoring.Mode(o.mode)
	}
	if set["catalog"] {
		cat, err := config.LoadCatalogFile(o.catalog)
		if err != nil {
			return err
		}
		cfg.CatalogFile = o.catalog
		cfg.Catalog = *cat
	}
	return cfg.Validate()
}

func main() {
	var o overrides
	envFile := flag.String("env", ".env", "dotenv file read before the environment")
	flag.StringVar(&o.addr, "addr", ":8080", "HTTP listen address")
	flag.StringVar(&o.db, "db", "sportsday.db", "SQLite database path")
	flag.StringVar(&o.adminPw, "adminpw", "", "Admin password (auto-generated if not set)")
	flag.StringVar(&o.logLevel, "loglevel", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&o.logFormat, "logformat", "text", "Log format (text, json)")
	flag.StringVar(&o.catalog, "catalog", "", "YAML catalog of grades, houses and scoring tables")
	flag.StringVar(&o.mode, "mode", "grade", "Bucket mode: grade or house")
	noBanner := flag.Bool("nobanner", false, "Skip the startup banner")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	openDisplay := flag.Bool("open", false, "Open the scoreboard in the browser once started")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Sports Day - live house and class standings

Usage:
  sportsday [options]

Every option can also be set in the environment or a .env file
(HTTP_ADDR, DB_PATH, ADMIN_PASSWORD, LOG_LEVEL, LOG_FORMAT, CATALOG_FILE,
SCORING_MODE, SCORING_TABLE, RANKING_POLICY, BASE_URL, FIRESTORE_PROJECT).
Flags win over the environment.

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Keyboard Shortcuts (when enabled):
  a              Open admin page in browser
  d              Open scoreboard display in browser
  h              Toggle HTTP request logging
  l              Cycle log level (debug → info → warn → error)
  q              Quit server
  ?              Show keyboard help

Examples:
  sportsday                              # grade-section standings on :8080
  sportsday -mode house                  # house standings
  sportsday -catalog school.yaml -open   # custom grades, open the display
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("sportsday %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%sConfiguration error:%s %v\n", red, reset, err)
		os.Exit(1)
	}
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if err := o.apply(cfg, set); err != nil {
		fmt.Fprintf(os.Stderr, "%sConfiguration error:%s %v\n", red, reset, err)
		os.Exit(1)
	}

	if !*noBanner {
		showBanner()
	}

	appLog := logger.NewWithOptions(logger.Options{
		Level:  cfg.LogLevel,
		Format: logger.ParseFormat(cfg.LogFormat),
	})

	password := cfg.AdminPassword
	if password == "" {
		password = auth.GeneratePassword()
	}

	a, err := app.New(cfg, appLog, web.GetTemplatesFS(), web.GetStaticFS(), auth.New(password))
	if err != nil {
		appLog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	appLog.Info("Admin password", "password", password)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	launcher := browser.New(a.PublicURL())
	if *openDisplay {
		if err := launcher.Scoreboard(); err != nil {
			appLog.Warn("Could not open browser", "error", err)
		}
	}

	if !*noKeyboard {
		printKeyboardHelp()
		go listenForKeyboard(&keyActions{launcher: launcher, log: appLog, quit: stop})
	} else {
		fmt.Printf("%sKeyboard shortcuts disabled%s\n\n", yellow, reset)
	}

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		appLog.Error("Server stopped", "error", err)
		a.Close()
		os.Exit(1)
	}
}
