package scoring

import (
	"slices"

	"github.com/abrezinsky/sportsday/internal/models"
)

// ScoringTable maps a finishing position to points, per event type.
// Positions missing from a column score 0.
type ScoringTable struct {
	Name       string      `json:"name" yaml:"name" validate:"required"`
	Individual map[int]int `json:"individual" yaml:"individual"`
	Group      map[int]int `json:"group" yaml:"group"`
}

// DefaultScoringTable is the table currently used on sports day
var DefaultScoringTable = ScoringTable{
	Name:       "standard",
	Individual: map[int]int{1: 10, 2: 7, 3: 5, 4: 3, 5: 2, 6: 1},
	Group:      map[int]int{1: 20, 2: 14, 3: 10, 4: 6},
}

// RevisedScoringTable is the shorter podium-only table
var RevisedScoringTable = ScoringTable{
	Name:       "revised",
	Individual: map[int]int{1: 7, 2: 5, 3: 3},
	Group:      map[int]int{1: 15, 2: 12, 3: 10},
}

// Tables returns the built-in scoring tables
func Tables() []ScoringTable {
	return []ScoringTable{DefaultScoringTable, RevisedScoringTable}
}

// TableByName finds a table among the built-ins and any extras supplied
// from configuration. Extras win on a name clash.
func TableByName(name string, extra ...ScoringTable) (ScoringTable, bool) {
	for _, t := range extra {
		if t.Name == name {
			return t, true
		}
	}
	for _, t := range Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return ScoringTable{}, false
}

// Points returns the points for a position in an event of the given type.
// Unplaced positions and unknown event types score 0.
func (t ScoringTable) Points(position int, typ models.EventType) int {
	if position <= 0 {
		return 0
	}
	switch typ {
	case models.Individual:
		return t.Individual[position]
	case models.Group:
		return t.Group[position]
	default:
		return 0
	}
}

// MaxPosition is the last position that scores in the given event type
func (t ScoringTable) MaxPosition(typ models.EventType) int {
	col := t.Individual
	if typ == models.Group {
		col = t.Group
	}
	last := 0
	for p, pts := range col {
		if pts > 0 && p > last {
			last = p
		}
	}
	return last
}

// CalculatePoints scores a position against DefaultScoringTable
func CalculatePoints(position int, typ models.EventType) int {
	return DefaultScoringTable.Points(position, typ)
}

// ResolvePoints returns a copy of events in which every computed winner
// carries the value from table. Override entries are left untouched.
func ResolvePoints(events []models.EventRecord, table ScoringTable) []models.EventRecord {
	out := make([]models.EventRecord, len(events))
	for i, e := range events {
		e.Winners = slices.Clone(e.Winners)
		for j := range e.Winners {
			if e.Winners[j].IsOverride() {
				continue
			}
			e.Winners[j].PointsMode = models.PointsComputed
			e.Winners[j].Points = table.Points(e.Winners[j].Position, e.Type)
		}
		out[i] = e
	}
	return out
}
