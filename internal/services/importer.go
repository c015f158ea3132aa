package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	apperrors "github.com/abrezinsky/sportsday/internal/errors"
	"github.com/abrezinsky/sportsday/internal/legacy"
	"github.com/abrezinsky/sportsday/internal/logger"
	"github.com/abrezinsky/sportsday/internal/metrics"
	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/repository"
	"github.com/abrezinsky/sportsday/pkg/firestore"
)

// ImportService loads events stored in older layouts and replaces the
// store contents with their canonical form
type ImportService struct {
	log     logger.Logger
	repo    repository.EventRepository
	tables  TableSource
	source  firestore.Client
	metrics *metrics.Metrics
}

// NewImportService creates a new ImportService. source may be nil when no
// Firestore project is configured.
func NewImportService(log logger.Logger, repo repository.EventRepository, tables TableSource, source firestore.Client, m *metrics.Metrics) *ImportService {
	return &ImportService{log: log, repo: repo, tables: tables, source: source, metrics: m}
}

// RawDocument is an event or photo document in any legacy layout
type RawDocument struct {
	ID        string
	Fields    map[string]any
	CreatedAt time.Time
}

// ImportResult summarises an import
type ImportResult struct {
	Events   int              `json:"events"`
	Photos   int              `json:"photos_attached"`
	Shapes   map[string]int   `json:"shapes"`
	Warnings []legacy.Warning `json:"warnings"`
}

// ImportFromFirestore pulls the event collection, and the standalone photo
// collection when one is named, and imports them
func (s *ImportService) ImportFromFirestore(ctx context.Context, collection, photoCollection string) (*ImportResult, error) {
	if s.source == nil {
		return nil, ErrFirestoreNotEnabled
	}
	docs, err := s.source.ListDocuments(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	var photos []firestore.Document
	if photoCollection != "" {
		photos, err = s.source.ListDocuments(ctx, photoCollection)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", photoCollection, err)
		}
	}
	s.log.Info("Firestore documents fetched", "project", s.source.Project(), "events", len(docs), "photos", len(photos))
	return s.ImportDocuments(ctx, fromFirestore(docs), fromFirestore(photos))
}

func fromFirestore(docs []firestore.Document) []RawDocument {
	out := make([]RawDocument, len(docs))
	for i, d := range docs {
		out[i] = RawDocument{ID: d.ID, Fields: d.Fields, CreatedAt: d.CreateTime}
	}
	return out
}

// ImportDocuments normalises the given documents and replaces every stored
// event with the result
func (s *ImportService) ImportDocuments(ctx context.Context, docs, photos []RawDocument) (*ImportResult, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	table, err := s.tables.ScoringTable(ctx)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Shapes: make(map[string]int), Warnings: []legacy.Warning{}}
	events := make([]models.EventRecord, 0, len(docs))
	for _, d := range docs {
		shape := legacy.DetectShape(d.Fields)
		e, warnings := legacy.Normalize(d.ID, d.Fields, table)
		if !d.CreatedAt.IsZero() {
			e.CreatedAt = d.CreatedAt.UTC()
		}
		events = append(events, e)
		result.Shapes[shape.String()]++
		result.Warnings = append(result.Warnings, warnings...)
	}

	var parsed []legacy.Photo
	for _, p := range photos {
		if photo, ok := legacy.ParsePhoto(p.ID, p.Fields); ok {
			parsed = append(parsed, photo)
		}
	}
	result.Photos = legacy.AttachPhotos(events, parsed)

	if err := s.repo.ReplaceAllEvents(ctx, events); err != nil {
		return nil, err
	}
	result.Events = len(events)

	for shape, n := range result.Shapes {
		s.metrics.Imported(shape, n)
	}
	for _, w := range result.Warnings {
		s.log.Warn("Import warning", "event", w.EventID, "field", w.Field, "message", w.Message)
	}
	s.log.Info("Events imported", "events", result.Events, "photos", result.Photos, "warnings", len(result.Warnings))
	return result, nil
}

// ParseDocuments reads a JSON export of a legacy collection. Both an array
// of objects carrying an "id" field and an object keyed by document id are
// accepted.
func ParseDocuments(data []byte) ([]RawDocument, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNoDocuments
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '[' {
		var list []map[string]any
		if err := dec.Decode(&list); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInvalidInput, "invalid JSON document list")
		}
		docs := make([]RawDocument, 0, len(list))
		for i, fields := range list {
			id, _ := fields["id"].(string)
			if id == "" {
				id = fmt.Sprintf("doc-%d", i+1)
			}
			delete(fields, "id")
			docs = append(docs, RawDocument{ID: id, Fields: fields})
		}
		return docs, nil
	}

	var byID map[string]map[string]any
	if err := dec.Decode(&byID); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidInput, "invalid JSON document map")
	}
	docs := make([]RawDocument, 0, len(byID))
	for id, fields := range byID {
		docs = append(docs, RawDocument{ID: id, Fields: fields})
	}
	slices.SortFunc(docs, func(a, b RawDocument) int {
		return strings.Compare(a.ID, b.ID)
	})
	return docs, nil
}
