package scoring

import "github.com/abrezinsky/sportsday/internal/models"

// BucketScore pairs a bucket with its aggregated total
type BucketScore struct {
	Bucket
	Score int `json:"score"`
}

// UnmatchedEntry is a winner whose bucket reference is not in the catalog.
// It is excluded from every total.
type UnmatchedEntry struct {
	EventID   string `json:"event_id"`
	EventName string `json:"event_name"`
	BucketRef string `json:"bucket_ref"`
	Position  int    `json:"position"`
	Points    int    `json:"points"`
}

// Tally is the result of one aggregation pass
type Tally struct {
	Scores         map[string]int   `json:"scores"`
	Unmatched      []UnmatchedEntry `json:"unmatched,omitempty"`
	CountedWinners int              `json:"counted_winners"`
}

// Aggregate sums stored winner points per bucket over every event that has
// results. Points are never recomputed here, so overrides stay
// authoritative. Negative points count as 0.
func Aggregate(events []models.EventRecord, catalog Catalog) Tally {
	t := Tally{Scores: make(map[string]int, len(catalog.Buckets))}
	for _, b := range catalog.Buckets {
		t.Scores[b.Key] = 0
	}

	for _, e := range events {
		if !e.HasResults {
			continue
		}
		for _, w := range e.Winners {
			if _, ok := t.Scores[w.BucketRef]; !ok {
				t.Unmatched = append(t.Unmatched, UnmatchedEntry{
					EventID:   e.ID,
					EventName: e.Name,
					BucketRef: w.BucketRef,
					Position:  w.Position,
					Points:    w.Points,
				})
				continue
			}
			t.Scores[w.BucketRef] += max(w.Points, 0)
			t.CountedWinners++
		}
	}
	return t
}

// InCatalogOrder lists every bucket with its score, in catalog order
func (t Tally) InCatalogOrder(catalog Catalog) []BucketScore {
	out := make([]BucketScore, len(catalog.Buckets))
	for i, b := range catalog.Buckets {
		out[i] = BucketScore{Bucket: b, Score: t.Scores[b.Key]}
	}
	return out
}
