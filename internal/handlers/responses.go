package handlers

import (
	"github.com/abrezinsky/sportsday/internal/scoring"
	"github.com/abrezinsky/sportsday/internal/services"
)

// ChampionsResponse is the response for the champions endpoint
type ChampionsResponse struct {
	Revision  int64                      `json:"revision"`
	Champions []scoring.CategoryChampion `json:"champions"`
	Leader    *scoring.ScoredBucket      `json:"leader,omitempty"`
}

// CatalogResponse lists the buckets that can be named as winners
type CatalogResponse struct {
	Mode    scoring.Mode     `json:"mode"`
	Levels  []string         `json:"levels,omitempty"`
	Buckets []scoring.Bucket `json:"buckets"`
}

// RepairResponse is the response for the name repair endpoint
type RepairResponse struct {
	Repaired int `json:"repaired"`
}

// SeedResponse is the response for seeding demo data
type SeedResponse struct {
	Created int `json:"created"`
}

// RecomputeResponse is the response for a forced recompute
type RecomputeResponse struct {
	Revision  int64 `json:"revision"`
	Unmatched int   `json:"unmatched"`
}

// HealthResponse is the response for the health check
type HealthResponse struct {
	Status   string `json:"status"`
	Revision int64  `json:"revision"`
}

// ExportFileResponse is one CSV file of the JSON export
type ExportFileResponse struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// CSVExportResponse carries the combined CSV and one file per table
type CSVExportResponse struct {
	Combined ExportFileResponse   `json:"combined"`
	Separate []ExportFileResponse `json:"separate"`
}

func newCSVExportResponse(bundle *services.ExportBundle) CSVExportResponse {
	resp := CSVExportResponse{
		Combined: ExportFileResponse{Name: bundle.Combined.Name, Content: string(bundle.Combined.Content)},
		Separate: make([]ExportFileResponse, 0, len(bundle.Separate)),
	}
	for _, f := range bundle.Separate {
		resp.Separate = append(resp.Separate, ExportFileResponse{Name: f.Name, Content: string(f.Content)})
	}
	return resp
}
