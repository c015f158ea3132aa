package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/abrezinsky/sportsday/internal/errors"
	"github.com/abrezinsky/sportsday/internal/legacy"
	"github.com/abrezinsky/sportsday/internal/logger"
	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/repository"
	"github.com/abrezinsky/sportsday/internal/scoring"
)

var validate = validator.New()

// TableSource provides the active scoring table
type TableSource interface {
	ScoringTable(ctx context.Context) (scoring.ScoringTable, error)
}

// EventService handles event and result entry
type EventService struct {
	log     logger.Logger
	repo    repository.EventRepository
	tables  TableSource
	catalog scoring.Catalog
}

// NewEventService creates a new EventService
func NewEventService(log logger.Logger, repo repository.EventRepository, tables TableSource, catalog scoring.Catalog) *EventService {
	return &EventService{log: log, repo: repo, tables: tables, catalog: catalog}
}

// EventInput holds the editable details of an event
type EventInput struct {
	Name        string           `json:"name" validate:"max=120"`
	Category    models.Category  `json:"category"`
	Type        models.EventType `json:"type" validate:"required,oneof=Individual Group"`
	Description string           `json:"description" validate:"max=1000"`
	Time        string           `json:"time"`
	Venue       string           `json:"venue"`
}

// WinnerInput is one placement as entered by an administrator. A nil
// Points means the points are computed from the scoring table.
type WinnerInput struct {
	BucketRef    string `json:"bucket_ref" validate:"required"`
	Position     int    `json:"position" validate:"gte=1"`
	Points       *int   `json:"points,omitempty" validate:"omitempty,gte=0"`
	StudentName  string `json:"student_name"`
	StudentClass string `json:"student_class"`
	Image        string `json:"image" validate:"omitempty,url"`
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Wrap(err, apperrors.ErrValidation, "invalid input")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return apperrors.Validation(strings.Join(msgs, "; "))
}

func (in EventInput) normalize() (EventInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		in.Name = models.PlaceholderEventName
	}
	if in.Category == "" {
		in.Category = models.CategoryAll
	}
	if !in.Category.Known() {
		return in, apperrors.Validationf("unknown category %q", in.Category)
	}
	if err := validate.Struct(in); err != nil {
		return in, validationError(err)
	}
	return in, nil
}

func notFound(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFoundf("event %s not found", id)
	}
	return err
}

// ListEvents returns all events in creation order
func (s *EventService) ListEvents(ctx context.Context) ([]models.EventRecord, error) {
	return s.repo.ListEvents(ctx)
}

// GetEvent returns an event by ID
func (s *EventService) GetEvent(ctx context.Context, id string) (*models.EventRecord, error) {
	e, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return e, nil
}

// CreateTemplate stores a new event without results
func (s *EventService) CreateTemplate(ctx context.Context, in EventInput) (*models.EventRecord, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	e := &models.EventRecord{
		Name:        in.Name,
		Category:    in.Category,
		Type:        in.Type,
		Description: in.Description,
		Time:        in.Time,
		Venue:       in.Venue,
		Winners:     []models.WinnerEntry{},
	}
	if err := s.repo.CreateEvent(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info("Event created", "id", e.ID, "name", e.Name, "type", e.Type)
	return e, nil
}

// UpdateEvent changes an event's details. Winners are kept. When the event
// type changes, computed points follow the new type on the next pass.
func (s *EventService) UpdateEvent(ctx context.Context, id string, in EventInput) (*models.EventRecord, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	e, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	e.Name = in.Name
	e.Category = in.Category
	e.Type = in.Type
	e.Description = in.Description
	e.Time = in.Time
	e.Venue = in.Venue

	table, err := s.tables.ScoringTable(ctx)
	if err != nil {
		return nil, err
	}
	for i := range e.Winners {
		if !e.Winners[i].IsOverride() {
			e.Winners[i].Points = table.Points(e.Winners[i].Position, e.Type)
		}
	}

	if err := s.repo.UpdateEvent(ctx, e); err != nil {
		return nil, notFound(err, id)
	}
	return e, nil
}

// DeleteEvent removes an event and its results
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return notFound(err, id)
	}
	s.log.Info("Event deleted", "id", id)
	return nil
}

// SetWinners validates and stores the results of an event. Computed points
// come from the active scoring table; entries with explicit points are kept
// as overrides. Every bucket reference must exist in the catalog.
func (s *EventService) SetWinners(ctx context.Context, id string, winners []WinnerInput) (*models.EventRecord, error) {
	if len(winners) == 0 {
		return nil, ErrNoWinners
	}
	e, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	table, err := s.tables.ScoringTable(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.WinnerEntry, 0, len(winners))
	for i, w := range winners {
		w.BucketRef = strings.TrimSpace(w.BucketRef)
		if err := validate.Struct(w); err != nil {
			return nil, apperrors.Wrap(validationError(err), apperrors.ErrValidation, fmt.Sprintf("winner %d", i+1))
		}
		if _, ok := s.catalog.Lookup(w.BucketRef); !ok {
			if hint, ok := legacy.Suggest(w.BucketRef, s.catalog); ok {
				return nil, apperrors.Validationf("winner %d: unknown bucket %q (did you mean %q?)", i+1, w.BucketRef, hint)
			}
			return nil, apperrors.Validationf("winner %d: unknown bucket %q", i+1, w.BucketRef)
		}

		entry := models.WinnerEntry{
			BucketRef:    w.BucketRef,
			Position:     w.Position,
			StudentName:  strings.TrimSpace(w.StudentName),
			StudentClass: strings.TrimSpace(w.StudentClass),
			Image:        w.Image,
		}
		if w.Points != nil {
			entry.Points = *w.Points
			entry.PointsMode = models.PointsOverride
		} else {
			entry.Points = table.Points(w.Position, e.Type)
			entry.PointsMode = models.PointsComputed
		}
		entries = append(entries, entry)
	}

	if err := s.repo.SetWinners(ctx, id, entries, true); err != nil {
		return nil, notFound(err, id)
	}
	e.Winners = entries
	e.HasResults = true
	s.log.Info("Results recorded", "id", id, "event", e.Name, "winners", len(entries), "table", table.Name)
	return e, nil
}

// ClearWinners removes an event's results, turning it back into a template
func (s *EventService) ClearWinners(ctx context.Context, id string) error {
	if err := s.repo.SetWinners(ctx, id, []models.WinnerEntry{}, false); err != nil {
		return notFound(err, id)
	}
	s.log.Info("Results cleared", "id", id)
	return nil
}

// AttachWinnerImage sets the photo of the winner at position
func (s *EventService) AttachWinnerImage(ctx context.Context, id string, position int, bucketRef, image string) error {
	if err := validate.Var(image, "required,url"); err != nil {
		return apperrors.Validation("image must be a URL")
	}
	if err := s.repo.UpdateWinnerImage(ctx, id, position, bucketRef, image); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundf("no winner at position %d in event %s", position, id)
		}
		return err
	}
	return nil
}

// RepairNames applies the placeholder name to every event whose name is
// empty or whitespace
func (s *EventService) RepairNames(ctx context.Context) (int, error) {
	n, err := s.repo.RepairEventNames(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("Event names repaired", "count", n)
	}
	return n, nil
}

// PointsAdvice is the suggested points for a placement
type PointsAdvice struct {
	Position int              `json:"position"`
	Type     models.EventType `json:"type"`
	Points   int              `json:"points"`
	Table    string           `json:"table"`
}

// PointsAdvice returns what the active table awards for a placement
func (s *EventService) PointsAdvice(ctx context.Context, position int, typ models.EventType) (*PointsAdvice, error) {
	if !typ.Valid() {
		return nil, apperrors.Validationf("unknown event type %q", typ)
	}
	if position < 1 {
		return nil, apperrors.Validation("position must be at least 1")
	}
	table, err := s.tables.ScoringTable(ctx)
	if err != nil {
		return nil, err
	}
	return &PointsAdvice{
		Position: position,
		Type:     typ,
		Points:   table.Points(position, typ),
		Table:    table.Name,
	}, nil
}
