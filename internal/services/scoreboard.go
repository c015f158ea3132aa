package services

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/sportsday/internal/legacy"
	"github.com/abrezinsky/sportsday/internal/logger"
	"github.com/abrezinsky/sportsday/internal/metrics"
	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/scoring"
)

// Broadcaster pushes scoreboard updates to connected clients
type Broadcaster interface {
	BroadcastScoreboard(v *View)
}

// SnapshotSource returns every event together with the revision the
// snapshot was taken at
type SnapshotSource interface {
	Snapshot(ctx context.Context) ([]models.EventRecord, int64, error)
}

// ScoringConfig provides the active scoring settings
type ScoringConfig interface {
	TableSource
	RankingPolicy(ctx context.Context) (scoring.RankingPolicy, error)
	BaseURL(ctx context.Context) (string, error)
}

// View is a published scoreboard: the board computed from one snapshot
type View struct {
	Revision   int64     `json:"revision"`
	ComputedAt time.Time `json:"computed_at"`
	scoring.Board
	// Suggestions maps unmatched bucket references to the closest known key
	Suggestions map[string]string `json:"suggestions,omitempty"`
	// Events is the snapshot with points resolved against the active table
	Events []models.EventRecord `json:"-"`
}

// ScoreboardService recomputes and publishes the scoreboard
type ScoreboardService struct {
	log      logger.Logger
	repo     SnapshotSource
	settings ScoringConfig
	catalog  scoring.Catalog
	metrics  *metrics.Metrics

	broadcaster atomic.Pointer[broadcasterBox]
	view        atomic.Pointer[View]
	kick        chan struct{}
	now         func() time.Time
}

type broadcasterBox struct{ b Broadcaster }

// NewScoreboardService creates a new ScoreboardService. m may be nil.
func NewScoreboardService(log logger.Logger, repo SnapshotSource, settings ScoringConfig, catalog scoring.Catalog, m *metrics.Metrics) *ScoreboardService {
	return &ScoreboardService{
		log:      log,
		repo:     repo,
		settings: settings,
		catalog:  catalog,
		metrics:  m,
		kick:     make(chan struct{}, 1),
		now:      time.Now,
	}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *ScoreboardService) SetBroadcaster(b Broadcaster) {
	s.broadcaster.Store(&broadcasterBox{b: b})
}

// Catalog returns the bucket catalog the scoreboard ranks
func (s *ScoreboardService) Catalog() scoring.Catalog {
	return s.catalog
}

// Changed schedules a recompute. Notifications that arrive while one is
// already pending are merged into it.
func (s *ScoreboardService) Changed(revision int64) {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run recomputes the scoreboard once and then after every change
// notification until ctx is cancelled
func (s *ScoreboardService) Run(ctx context.Context) error {
	if _, err := s.Recompute(ctx); err != nil {
		s.log.Error("Initial scoreboard computation failed", "error", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.kick:
			if _, err := s.Recompute(ctx); err != nil && ctx.Err() == nil {
				s.log.Error("Scoreboard recompute failed", "error", err)
			}
		}
	}
}

// Recompute builds a view from a fresh snapshot and publishes it unless a
// newer one is already published. It returns the view that is current
// afterwards.
func (s *ScoreboardService) Recompute(ctx context.Context) (*View, error) {
	start := time.Now()
	v, err := s.compute(ctx)
	s.metrics.ObserveRecompute(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if len(v.Unmatched) > 0 {
		refs := make([]string, 0, len(v.Unmatched))
		for _, u := range v.Unmatched {
			refs = append(refs, u.BucketRef)
		}
		s.log.Warn("Winner entries excluded from scoreboard",
			"count", len(v.Unmatched), "revision", v.Revision, "refs", strings.Join(refs, ","))
	}

	if !s.publish(v) {
		s.metrics.StaleDropped()
		s.log.Debug("Dropped stale scoreboard", "revision", v.Revision)
		return s.view.Load(), nil
	}
	s.metrics.SetPublished(v.Revision, len(v.Unmatched))
	s.log.Debug("Scoreboard published", "revision", v.Revision, "duration", time.Since(start))

	if box := s.broadcaster.Load(); box != nil && box.b != nil {
		box.b.BroadcastScoreboard(v)
		s.metrics.Broadcast()
	}
	return v, nil
}

func (s *ScoreboardService) compute(ctx context.Context) (*View, error) {
	events, rev, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	table, err := s.settings.ScoringTable(ctx)
	if err != nil {
		return nil, err
	}
	policy, err := s.settings.RankingPolicy(ctx)
	if err != nil {
		return nil, err
	}

	v := &View{
		Revision:   rev,
		ComputedAt: s.now().UTC(),
		Board:      scoring.Compute(events, s.catalog, table, policy),
		Events:     scoring.ResolvePoints(events, table),
	}
	for _, u := range v.Unmatched {
		if hint, ok := legacy.Suggest(u.BucketRef, s.catalog); ok {
			if v.Suggestions == nil {
				v.Suggestions = make(map[string]string)
			}
			v.Suggestions[u.BucketRef] = hint
		}
	}
	return v, nil
}

// publish installs v unless the published view is from a later revision
func (s *ScoreboardService) publish(v *View) bool {
	for {
		cur := s.view.Load()
		if cur != nil && cur.Revision > v.Revision {
			return false
		}
		if s.view.CompareAndSwap(cur, v) {
			return true
		}
	}
}

// Current returns the published view, computing one if nothing has been
// published yet
func (s *ScoreboardService) Current(ctx context.Context) (*View, error) {
	if v := s.view.Load(); v != nil {
		return v, nil
	}
	return s.Recompute(ctx)
}

// Published returns the published view without computing
func (s *ScoreboardService) Published() *View {
	return s.view.Load()
}

// WinnerFilter narrows the flattened winner list
type WinnerFilter struct {
	Category models.Category
	Type     models.EventType
}

// Winners flattens the winners of every event with results, in event
// order, with points as the scoreboard counted them
func (s *ScoreboardService) Winners(ctx context.Context, filter WinnerFilter) ([]models.WinnerRow, error) {
	v, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	rows := []models.WinnerRow{}
	for _, e := range v.Events {
		if !e.HasResults {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		for _, w := range e.Winners {
			rows = append(rows, models.WinnerRow{
				EventID:       e.ID,
				EventName:     e.Name,
				EventCategory: e.Category,
				CategoryLabel: e.Category.Label(),
				EventType:     e.Type,
				WinnerEntry:   w,
			})
		}
	}
	return rows, nil
}

// DisplayQR returns a PNG QR code linking to the public scoreboard
func (s *ScoreboardService) DisplayQR(ctx context.Context) ([]byte, error) {
	baseURL, err := s.settings.BaseURL(ctx)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return qrcode.Encode(strings.TrimRight(baseURL, "/")+"/", qrcode.Medium, 256)
}
