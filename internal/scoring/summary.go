package scoring

import "github.com/abrezinsky/sportsday/internal/models"

// Summary holds roll-up statistics for a ranking pass
type Summary struct {
	TotalEvents       int `json:"total_events"`
	EventsWithResults int `json:"events_with_results"`
	TotalWinners      int `json:"total_winners"`
	TotalPoints       int `json:"total_points"`
	RankedBuckets     int `json:"ranked_buckets"`
	UnrankedBuckets   int `json:"unranked_buckets"`
}

// Summarize computes summary statistics. Winners are counted only on events
// that have results; points are the sum of the ranked scores.
func Summarize(events []models.EventRecord, ranked []ScoredBucket) Summary {
	var s Summary
	s.TotalEvents = len(events)
	for _, e := range events {
		if !e.HasResults {
			continue
		}
		s.EventsWithResults++
		s.TotalWinners += len(e.Winners)
	}
	for _, b := range ranked {
		s.TotalPoints += b.Score
		if b.Rank > 0 {
			s.RankedBuckets++
		} else {
			s.UnrankedBuckets++
		}
	}
	return s
}

// Board is everything the scoreboard shows for one snapshot
type Board struct {
	Mode      Mode               `json:"mode"`
	Table     string             `json:"scoring_table"`
	Policy    RankingPolicy      `json:"ranking_policy"`
	Standings []ScoredBucket     `json:"standings"`
	Champions []CategoryChampion `json:"champions"`
	Leader    *ScoredBucket      `json:"leader,omitempty"`
	Summary   Summary            `json:"summary"`
	Unmatched []UnmatchedEntry   `json:"unmatched,omitempty"`
}

// Compute runs the whole pipeline over one snapshot: resolve computed
// points, aggregate, rank, then derive champions and the summary.
func Compute(events []models.EventRecord, catalog Catalog, table ScoringTable, policy RankingPolicy) Board {
	resolved := ResolvePoints(events, table)
	tally := Aggregate(resolved, catalog)
	ranked := RankWith(policy, tally.InCatalogOrder(catalog))

	b := Board{
		Mode:      catalog.Mode,
		Table:     table.Name,
		Policy:    policy,
		Standings: ranked,
		Champions: Champions(ranked, catalog.Levels),
		Summary:   Summarize(resolved, ranked),
		Unmatched: tally.Unmatched,
	}
	if b.Champions == nil {
		b.Champions = []CategoryChampion{}
	}
	if leader, ok := Leader(ranked); ok {
		b.Leader = &leader
	}
	return b
}
