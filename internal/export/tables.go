// Package export renders the scoreboard as CSV tables, an XLSX workbook
// and a PNG chart.
package export

import (
	"time"

	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/scoring"
)

// Table is one titled table of an export
type Table struct {
	Name   string
	Title  string
	Header []string
	Rows   [][]any
}

// Tables are the four tables of a full export
type Tables struct {
	Summary   Table
	Standings Table
	Events    Table
	Winners   Table
}

// All returns the tables in export order
func (t Tables) All() []Table {
	return []Table{t.Summary, t.Standings, t.Events, t.Winners}
}

// ByName finds a table by its short name
func (t Tables) ByName(name string) (Table, bool) {
	for _, tbl := range t.All() {
		if tbl.Name == name {
			return tbl, true
		}
	}
	return Table{}, false
}

// TableNames lists the short names accepted by ByName
var TableNames = []string{"summary", "standings", "events", "winners"}

const exportDateLayout = "2006-01-02 15:04:05"

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Build assembles the export tables from a computed board and the events
// it was computed from.
func Build(board scoring.Board, events []models.EventRecord, exportedAt time.Time) Tables {
	bucketLabel := "Grade-Section"
	if board.Mode == scoring.ModeHouse {
		bucketLabel = "House"
	}

	var t Tables

	totalWinners := 0
	for _, e := range events {
		totalWinners += len(e.Winners)
	}
	t.Summary = Table{
		Name:   "summary",
		Title:  "Summary Statistics",
		Header: []string{"Metric", "Value"},
		Rows: [][]any{
			{"Total Events", board.Summary.TotalEvents},
			{"Events with Results", board.Summary.EventsWithResults},
			{"Total Winners", totalWinners},
			{"Total Points Distributed", board.Summary.TotalPoints},
			{"Export Date", exportedAt.Format(exportDateLayout)},
		},
	}

	t.Standings = Table{Name: "standings", Title: bucketLabel + " Standings"}
	if board.Mode == scoring.ModeHouse {
		t.Standings.Header = []string{"Rank", "House Name", "Total Score", "House Color"}
		for _, b := range board.Standings {
			t.Standings.Rows = append(t.Standings.Rows, []any{b.Rank, b.Name, b.Score, b.Color})
		}
	} else {
		t.Standings.Header = []string{"Rank", "Grade-Section", "Level", "Total Score"}
		for _, b := range board.Standings {
			t.Standings.Rows = append(t.Standings.Rows, []any{b.Rank, b.Name, b.Level, b.Score})
		}
	}

	t.Events = Table{
		Name:  "events",
		Title: "Events Overview",
		Header: []string{"Event ID", "Event Name", "Category", "Type", "Description", "Time", "Venue",
			"Has Results", "Number of Winners"},
	}
	t.Winners = Table{
		Name:  "winners",
		Title: "Winners Details",
		Header: []string{"Event Name", "Event Category", "Event Type", "Position", "Student Name",
			"Student Class", bucketLabel, "Points Earned", "Has Photo"},
	}
	for _, e := range events {
		t.Events.Rows = append(t.Events.Rows, []any{
			e.ID, e.Name, e.Category.Label(), string(e.Type), e.Description, e.Time, e.Venue,
			yesNo(e.HasResults), len(e.Winners),
		})
		for _, w := range e.Winners {
			t.Winners.Rows = append(t.Winners.Rows, []any{
				e.Name, e.Category.Label(), string(e.Type), w.Position, w.StudentName,
				w.StudentClass, w.BucketRef, w.Points, yesNo(w.Image != ""),
			})
		}
	}

	return t
}
