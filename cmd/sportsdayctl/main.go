// Command sportsdayctl runs maintenance tasks against a sports day
// database without starting the server.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "sportsdayctl: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "sportsdayctl",
		Usage:   "maintain a sports day database",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env", Value: ".env", Usage: "dotenv file read before the environment"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path (overrides DB_PATH)"},
			&cli.StringFlag{Name: "catalog", Usage: "YAML catalog file (overrides CATALOG_FILE)"},
			&cli.StringFlag{Name: "mode", Usage: "bucket mode, grade or house (overrides SCORING_MODE)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log at debug level"},
		},
		Commands: []*cli.Command{
			standingsCommand(),
			pointsCommand(),
			repairNamesCommand(),
			importCommand(),
			exportCommand(),
			seedCommand(),
		},
	}
}
