package services

import (
	"bytes"
	"context"
	"time"

	"github.com/abrezinsky/sportsday/internal/export"
	"github.com/abrezinsky/sportsday/internal/scoring"
)

// ViewSource provides the current scoreboard view
type ViewSource interface {
	Current(ctx context.Context) (*View, error)
}

// ExportService renders the scoreboard for download
type ExportService struct {
	views ViewSource
	now   func() time.Time
}

// NewExportService creates a new ExportService
func NewExportService(views ViewSource) *ExportService {
	return &ExportService{views: views, now: time.Now}
}

// ExportBundle holds the combined CSV and one CSV per table
type ExportBundle struct {
	Combined export.File   `json:"combined"`
	Separate []export.File `json:"separate"`
}

func (s *ExportService) tables(ctx context.Context) (export.Tables, *View, error) {
	v, err := s.views.Current(ctx)
	if err != nil {
		return export.Tables{}, nil, err
	}
	return export.Build(v.Board, v.Events, s.now()), v, nil
}

// CSV renders the combined export and the separate table files
func (s *ExportService) CSV(ctx context.Context) (*ExportBundle, error) {
	t, _, err := s.tables(ctx)
	if err != nil {
		return nil, err
	}
	date := s.now()
	combined, err := export.Combined(t, date)
	if err != nil {
		return nil, err
	}
	separate, err := export.Separate(t, date)
	if err != nil {
		return nil, err
	}
	return &ExportBundle{Combined: combined, Separate: separate}, nil
}

// Table renders a single table as CSV
func (s *ExportService) Table(ctx context.Context, name string) (*export.File, error) {
	bundle, err := s.CSV(ctx)
	if err != nil {
		return nil, err
	}
	for i, tableName := range export.TableNames {
		if tableName == name {
			return &bundle.Separate[i], nil
		}
	}
	return nil, ErrUnknownExportTable
}

// XLSX renders all tables as a workbook
func (s *ExportService) XLSX(ctx context.Context) ([]byte, error) {
	t, _, err := s.tables(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, t.All()...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XLSXFileName is the download name of the workbook
func (s *ExportService) XLSXFileName() string {
	return "SportsDay_Data_Export_" + s.now().Format("2006-01-02") + ".xlsx"
}

// Chart renders the standings as a PNG bar chart
func (s *ExportService) Chart(ctx context.Context) ([]byte, error) {
	v, err := s.views.Current(ctx)
	if err != nil {
		return nil, err
	}
	title := "Grade-Section Standings"
	if v.Mode == scoring.ModeHouse {
		title = "House Standings"
	}
	var buf bytes.Buffer
	if err := export.RenderChart(&buf, v.Standings, title); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
