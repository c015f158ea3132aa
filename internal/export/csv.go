package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// WriteCSV writes each table as a title line, a header row and its data
// rows, followed by a blank line. A table without rows is written as its
// title and "No data available".
func WriteCSV(w io.Writer, tables ...Table) error {
	cw := csv.NewWriter(w)
	for _, t := range tables {
		if err := cw.Write([]string{t.Title}); err != nil {
			return err
		}
		if len(t.Rows) == 0 {
			if err := cw.Write([]string{"No data available"}); err != nil {
				return err
			}
		} else {
			if err := cw.Write(t.Header); err != nil {
				return err
			}
			for _, row := range t.Rows {
				if err := cw.Write(formatRow(row)); err != nil {
					return err
				}
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatRow(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch x := v.(type) {
		case string:
			out[i] = x
		case nil:
			out[i] = ""
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}

// File is a named export file
type File struct {
	Name    string
	Content []byte
}

// CombinedFileName is the name of the single-file export for a date
func CombinedFileName(date time.Time) string {
	return fmt.Sprintf("SportsDay_Data_Export_%s.csv", date.Format("2006-01-02"))
}

// Combined renders all four tables into one CSV file
func Combined(t Tables, date time.Time) (File, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t.All()...); err != nil {
		return File{}, err
	}
	return File{Name: CombinedFileName(date), Content: buf.Bytes()}, nil
}

var separateFileNames = map[string]string{
	"summary":   "Summary",
	"standings": "Standings",
	"events":    "Events_Overview",
	"winners":   "Winners_Details",
}

// Separate renders one CSV file per table
func Separate(t Tables, date time.Time) ([]File, error) {
	var files []File
	for _, tbl := range t.All() {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, tbl); err != nil {
			return nil, err
		}
		files = append(files, File{
			Name:    fmt.Sprintf("SportsDay_%s_%s.csv", separateFileNames[tbl.Name], date.Format("2006-01-02")),
			Content: buf.Bytes(),
		})
	}
	return files, nil
}
