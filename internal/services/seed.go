package services

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/abrezinsky/sportsday/internal/logger"
	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/repository"
	"github.com/abrezinsky/sportsday/internal/scoring"
)

var (
	individualEvents = []string{"100m Sprint", "200m Sprint", "Long Jump", "High Jump", "Shot Put", "Sack Race", "Lemon and Spoon", "Skipping", "Frog Jump", "Hurdles"}
	groupEvents      = []string{"4x100m Relay", "Tug of War", "Three-Legged Race", "Ball Passing", "Drill Display", "Kho-Kho"}
	venues           = []string{"Main Track", "Sand Pit", "Football Ground", "Basketball Court", "Assembly Hall"}
)

// SeedService generates demo events and results
type SeedService struct {
	log     logger.Logger
	repo    repository.EventRepository
	tables  TableSource
	catalog scoring.Catalog
	faker   *gofakeit.Faker
}

// NewSeedService creates a new SeedService. A zero seed picks a random one.
func NewSeedService(log logger.Logger, repo repository.EventRepository, tables TableSource, catalog scoring.Catalog, seed uint64) *SeedService {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &SeedService{log: log, repo: repo, tables: tables, catalog: catalog, faker: gofakeit.New(seed)}
}

// SeedEvents stores count generated events. Roughly two in three carry
// results.
func (s *SeedService) SeedEvents(ctx context.Context, count int) (int, error) {
	if count < 1 || count > 200 {
		return 0, ErrInvalidSeedCount
	}
	table, err := s.tables.ScoringTable(ctx)
	if err != nil {
		return 0, err
	}
	keys := s.catalog.Keys()
	categories := models.Categories()

	created := 0
	for i := 0; i < count; i++ {
		e := s.event(categories)
		if len(keys) > 0 && s.faker.Number(1, 3) < 3 {
			e.Winners = s.winners(e.Type, table, keys)
			e.HasResults = len(e.Winners) > 0
		}
		if err := s.repo.CreateEvent(ctx, e); err != nil {
			return created, err
		}
		created++
	}
	s.log.Info("Seeded demo events", "count", created, "table", table.Name)
	return created, nil
}

func (s *SeedService) event(categories []models.Category) *models.EventRecord {
	typ := models.Individual
	name := s.faker.RandomString(individualEvents)
	if s.faker.Number(1, 3) == 1 {
		typ = models.Group
		name = s.faker.RandomString(groupEvents)
	}
	category := categories[s.faker.Number(0, len(categories)-1)]
	return &models.EventRecord{
		Name:        fmt.Sprintf("%s (%s)", name, category.Label()),
		Category:    category,
		Type:        typ,
		Description: s.faker.Sentence(s.faker.Number(4, 10)),
		Time:        fmt.Sprintf("%02d:%02d", s.faker.Number(8, 15), s.faker.RandomInt([]int{0, 15, 30, 45})),
		Venue:       s.faker.RandomString(venues),
		Winners:     []models.WinnerEntry{},
	}
}

func (s *SeedService) winners(typ models.EventType, table scoring.ScoringTable, keys []string) []models.WinnerEntry {
	places := min(table.MaxPosition(typ), 3)
	out := make([]models.WinnerEntry, 0, places)
	for pos := 1; pos <= places; pos++ {
		w := models.WinnerEntry{
			BucketRef:  keys[s.faker.Number(0, len(keys)-1)],
			Position:   pos,
			Points:     table.Points(pos, typ),
			PointsMode: models.PointsComputed,
		}
		if typ == models.Individual {
			w.StudentName = s.faker.FirstName() + " " + s.faker.LastName()
			w.StudentClass = w.BucketRef
		}
		out = append(out, w)
	}
	return out
}
