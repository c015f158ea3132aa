package scoring

import (
	"cmp"
	"slices"
)

// RankingPolicy selects how ranks are assigned
type RankingPolicy string

const (
	// PolicyZeroSentinel is dense ranking where zero scores are unranked (rank 0)
	PolicyZeroSentinel RankingPolicy = "zero_sentinel"
	// PolicyDense is dense ranking over every bucket, zero scores included
	PolicyDense RankingPolicy = "dense"
)

// Valid reports whether p is a known policy
func (p RankingPolicy) Valid() bool {
	return p == PolicyZeroSentinel || p == PolicyDense
}

// ScoredBucket is a bucket with its final score and rank.
// Rank 0 means unranked.
type ScoredBucket struct {
	BucketScore
	Rank int `json:"rank"`
}

// CategoryChampion is the top bucket of one level
type CategoryChampion struct {
	Level  string       `json:"level"`
	Bucket ScoredBucket `json:"bucket"`
}

// rankState is carried from one bucket to the next while ranking
type rankState struct {
	prevScore int
	prevRank  int
	started   bool
}

func (s rankState) next(score int) (rankState, int) {
	if !s.started {
		return rankState{prevScore: score, prevRank: 1, started: true}, 1
	}
	if score < s.prevScore {
		r := s.prevRank + 1
		return rankState{prevScore: score, prevRank: r, started: true}, r
	}
	return s, s.prevRank
}

func sortByScore(scored []BucketScore) []BucketScore {
	sorted := slices.Clone(scored)
	slices.SortStableFunc(sorted, func(a, b BucketScore) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return sorted
}

// Rank orders buckets by score, highest first, keeping catalog order among
// equal scores. Ties share a rank and the next lower score continues at
// rank+1. Buckets with a zero score get rank 0.
func Rank(scored []BucketScore) []ScoredBucket {
	sorted := sortByScore(scored)
	out := make([]ScoredBucket, len(sorted))
	var st rankState
	for i, b := range sorted {
		out[i] = ScoredBucket{BucketScore: b}
		if b.Score <= 0 {
			continue
		}
		st, out[i].Rank = st.next(b.Score)
	}
	return out
}

// RankDense is Rank without the zero-score carve-out: every bucket is
// ranked 1 + the number of distinct higher scores.
func RankDense(scored []BucketScore) []ScoredBucket {
	sorted := sortByScore(scored)
	out := make([]ScoredBucket, len(sorted))
	var st rankState
	for i, b := range sorted {
		out[i] = ScoredBucket{BucketScore: b}
		st, out[i].Rank = st.next(b.Score)
	}
	return out
}

// RankWith ranks using the given policy. Unknown policies fall back to
// PolicyZeroSentinel.
func RankWith(policy RankingPolicy, scored []BucketScore) []ScoredBucket {
	if policy == PolicyDense {
		return RankDense(scored)
	}
	return Rank(scored)
}

// Champions returns the top bucket of each level, in level order. A level
// whose best score is 0 has no champion.
func Champions(ranked []ScoredBucket, levels []string) []CategoryChampion {
	var out []CategoryChampion
	for _, level := range levels {
		var best *ScoredBucket
		for i := range ranked {
			b := &ranked[i]
			if b.Level != level {
				continue
			}
			if best == nil || b.Score > best.Score {
				best = b
			}
		}
		if best == nil || best.Score <= 0 {
			continue
		}
		out = append(out, CategoryChampion{Level: level, Bucket: *best})
	}
	return out
}

// Leader returns the overall top bucket when it has scored
func Leader(ranked []ScoredBucket) (ScoredBucket, bool) {
	if len(ranked) == 0 || ranked[0].Score <= 0 {
		return ScoredBucket{}, false
	}
	return ranked[0], true
}
