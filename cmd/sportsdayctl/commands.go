package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/abrezinsky/sportsday/internal/app"
	"github.com/abrezinsky/sportsday/internal/config"
	"github.com/abrezinsky/sportsday/internal/logger"
	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/scoring"
	"github.com/abrezinsky/sportsday/internal/services"
)

// withCore loads configuration, applies the global flags and opens the
// database for the duration of fn
func withCore(c *cli.Context, fn func(core *app.Core) error) error {
	cfg, err := config.Load(c.String("env"))
	if err != nil {
		return err
	}
	if db := c.String("db"); db != "" {
		cfg.DBPath = db
	}
	if mode := c.String("mode"); mode != "" {
		cfg.ScoringMode = scoring.Mode(mode)
	}
	if path := c.String("catalog"); path != "" {
		cat, err := config.LoadCatalogFile(path)
		if err != nil {
			return err
		}
		cfg.CatalogFile = path
		cfg.Catalog = *cat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	log := logger.NewWithOptions(logger.Options{
		Level:  level,
		Format: logger.ParseFormat(cfg.LogFormat),
		Output: c.App.ErrWriter,
		Attrs:  []any{"component", "sportsdayctl"},
	})

	core, err := app.NewCore(cfg, log)
	if err != nil {
		return err
	}
	defer core.Close()
	return fn(core)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print the ranked standings and category champions",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print the full scoreboard as JSON"},
		},
		Action: func(c *cli.Context) error {
			return withCore(c, func(core *app.Core) error {
				v, err := core.Scoreboard.Recompute(c.Context)
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return writeJSON(c.App.Writer, v)
				}
				return printStandings(c.App.Writer, v)
			})
		},
	}
}

func printStandings(w io.Writer, v *services.View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Table: %s\tPolicy: %s\tRevision: %d\n\n", v.Table, v.Policy, v.Revision)
	fmt.Fprintln(tw, "RANK\tBUCKET\tSCORE")
	for _, s := range v.Standings {
		rank := "-"
		if s.Rank > 0 {
			rank = fmt.Sprint(s.Rank)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", rank, s.Name, s.Score)
	}
	if len(v.Champions) > 0 {
		fmt.Fprintln(tw, "\nLEVEL\tCHAMPION\tSCORE")
		for _, ch := range v.Champions {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", ch.Level, ch.Bucket.Name, ch.Bucket.Score)
		}
	}
	for _, u := range v.Unmatched {
		fmt.Fprintf(tw, "\nunmatched: %s in %q\n", u.BucketRef, u.EventName)
	}
	return tw.Flush()
}

func pointsCommand() *cli.Command {
	return &cli.Command{
		Name:      "points",
		Usage:     "show what the active scoring table awards for a placement",
		ArgsUsage: "<position> <Individual|Group>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("usage: points <position> <Individual|Group>", 2)
			}
			var position int
			if _, err := fmt.Sscan(c.Args().Get(0), &position); err != nil {
				return fmt.Errorf("invalid position %q", c.Args().Get(0))
			}
			typ := models.EventType(c.Args().Get(1))
			for _, t := range []models.EventType{models.Individual, models.Group} {
				if strings.EqualFold(string(t), string(typ)) {
					typ = t
				}
			}
			return withCore(c, func(core *app.Core) error {
				advice, err := core.Events.PointsAdvice(c.Context, position, typ)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "%s position %d: %d points (%s table)\n",
					advice.Type, advice.Position, advice.Points, advice.Table)
				return nil
			})
		},
	}
}

func repairNamesCommand() *cli.Command {
	return &cli.Command{
		Name:  "repair-names",
		Usage: "give every unnamed event the placeholder name",
		Action: func(c *cli.Context) error {
			return withCore(c, func(core *app.Core) error {
				n, err := core.Events.RepairNames(c.Context)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "repaired %d event name(s)\n", n)
				return nil
			})
		},
	}
}

func printImportResult(w io.Writer, r *services.ImportResult) {
	fmt.Fprintf(w, "imported %d event(s), attached %d photo(s)\n", r.Events, r.Photos)
	for shape, n := range r.Shapes {
		fmt.Fprintf(w, "  %s: %d\n", shape, n)
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  warning: %s %s: %s\n", warn.EventID, warn.Field, warn.Message)
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "replace all events with documents in an older layout",
		Subcommands: []*cli.Command{
			{
				Name:      "json",
				Usage:     "import a JSON export of the event collection",
				ArgsUsage: "<events.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "photos", Usage: "JSON export of the photo collection"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: import json <events.json>", 2)
					}
					docs, err := readDocuments(c.Args().First())
					if err != nil {
						return err
					}
					var photos []services.RawDocument
					if p := c.String("photos"); p != "" {
						if photos, err = readDocuments(p); err != nil {
							return err
						}
					}
					return withCore(c, func(core *app.Core) error {
						result, err := core.Import.ImportDocuments(c.Context, docs, photos)
						if err != nil {
							return err
						}
						printImportResult(c.App.Writer, result)
						return nil
					})
				},
			},
			{
				Name:  "firestore",
				Usage: "pull the event collection from Firestore (needs FIRESTORE_PROJECT)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "collection", Usage: "event collection (default FIRESTORE_COLLECTION)"},
					&cli.StringFlag{Name: "photos-collection", Usage: "standalone photo collection"},
				},
				Action: func(c *cli.Context) error {
					return withCore(c, func(core *app.Core) error {
						collection := c.String("collection")
						if collection == "" {
							collection = core.Config.FirestoreCollection
						}
						result, err := core.Import.ImportFromFirestore(c.Context, collection, c.String("photos-collection"))
						if err != nil {
							return err
						}
						printImportResult(c.App.Writer, result)
						return nil
					})
				},
			},
		},
	}
}

func readDocuments(path string) ([]services.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	docs, err := services.ParseDocuments(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

func exportCommand() *cli.Command {
	outFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: ".", Usage: "output directory"}
	}
	return &cli.Command{
		Name:  "export",
		Usage: "write standings and results files",
		Subcommands: []*cli.Command{
			{
				Name:  "csv",
				Usage: "write the combined CSV and one CSV per table",
				Flags: []cli.Flag{
					outFlag(),
					&cli.StringFlag{Name: "table", Usage: "write only this table"},
				},
				Action: func(c *cli.Context) error {
					return withCore(c, func(core *app.Core) error {
						if name := c.String("table"); name != "" {
							f, err := core.Export.Table(c.Context, name)
							if err != nil {
								return err
							}
							return writeFile(c, f.Name, f.Content)
						}
						bundle, err := core.Export.CSV(c.Context)
						if err != nil {
							return err
						}
						if err := writeFile(c, bundle.Combined.Name, bundle.Combined.Content); err != nil {
							return err
						}
						for _, f := range bundle.Separate {
							if err := writeFile(c, f.Name, f.Content); err != nil {
								return err
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "xlsx",
				Usage: "write every table into one workbook",
				Flags: []cli.Flag{outFlag()},
				Action: func(c *cli.Context) error {
					return withCore(c, func(core *app.Core) error {
						data, err := core.Export.XLSX(c.Context)
						if err != nil {
							return err
						}
						return writeFile(c, core.Export.XLSXFileName(), data)
					})
				},
			},
			{
				Name:  "chart",
				Usage: "render the standings as a PNG bar chart",
				Flags: []cli.Flag{outFlag()},
				Action: func(c *cli.Context) error {
					return withCore(c, func(core *app.Core) error {
						data, err := core.Export.Chart(c.Context)
						if err != nil {
							return err
						}
						return writeFile(c, "standings.png", data)
					})
				},
			},
		},
	}
}

func writeFile(c *cli.Context, name string, data []byte) error {
	path := filepath.Join(c.String("out"), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
	return nil
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "add generated events for rehearsals and demos",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 20, Usage: "events to create (1-200)"},
		},
		Action: func(c *cli.Context) error {
			return withCore(c, func(core *app.Core) error {
				n, err := core.Seed.SeedEvents(c.Context, c.Int("count"))
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "created %d event(s)\n", n)
				return nil
			})
		},
	}
}
