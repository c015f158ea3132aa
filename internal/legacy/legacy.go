// Package legacy maps event documents from older storage layouts onto the
// canonical event model.
//
// Three layouts have existed: a flat document holding a single result
// (house or grade plus position), a document with a nested winners list
// keyed by house, and a nested list keyed by grade-section. Anything that
// comes out of Normalize looks the same regardless of where it came from.
package legacy

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/scoring"
)

// Shape identifies a document layout
type Shape int

const (
	ShapeTemplate Shape = iota
	ShapeFlat
	ShapeNestedHouse
	ShapeNestedGrade
)

func (s Shape) String() string {
	switch s {
	case ShapeFlat:
		return "flat"
	case ShapeNestedHouse:
		return "nested-house"
	case ShapeNestedGrade:
		return "nested-grade"
	default:
		return "template"
	}
}

// Warning describes something Normalize had to repair or guess
type Warning struct {
	EventID string `json:"event_id"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.EventID, w.Field, w.Message)
}

// DetectShape reports which layout a raw document uses
func DetectShape(doc map[string]any) Shape {
	if raw, ok := doc["winners"].([]any); ok && len(raw) > 0 {
		for _, item := range raw {
			w, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if hasString(w, "gradeSection") || hasString(w, "grade") {
				return ShapeNestedGrade
			}
		}
		return ShapeNestedHouse
	}
	if _, ok := doc["position"]; ok {
		if hasString(doc, "house") || hasString(doc, "gradeSection") || hasString(doc, "grade") {
			return ShapeFlat
		}
	}
	return ShapeTemplate
}

// RepairName returns the placeholder for empty, blank or non-string names
func RepairName(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return models.PlaceholderEventName, true
	}
	return s, false
}

// Normalize converts one raw document into an EventRecord. Points stored on
// a legacy winner are kept as overrides; winners without points are marked
// computed and resolved against table.
func Normalize(id string, doc map[string]any, table scoring.ScoringTable) (models.EventRecord, []Warning) {
	var warns []Warning
	warn := func(field, format string, args ...any) {
		warns = append(warns, Warning{EventID: id, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	e := models.EventRecord{ID: id}

	name, repaired := RepairName(doc["name"])
	if repaired {
		warn("name", "empty name replaced with %q", name)
	}
	e.Name = name

	e.Category = ResolveCategory(stringField(doc, "category"))
	if e.Category != "" && !e.Category.Known() {
		warn("category", "unrecognised category %q kept as-is", e.Category)
	}

	typ, ok := parseEventType(stringField(doc, "type"))
	if !ok {
		warn("type", "unrecognised event type %q, using %s", stringField(doc, "type"), typ)
	}
	e.Type = typ

	e.Description = stringField(doc, "description")
	e.Time = stringField(doc, "time")
	if e.Time == "" {
		e.Time = stringField(doc, "date")
	}
	e.Venue = stringField(doc, "venue")

	switch DetectShape(doc) {
	case ShapeFlat:
		w, ws := normalizeWinner(id, doc, table, typ, true)
		warns = append(warns, ws...)
		e.Winners = []models.WinnerEntry{w}
		e.HasResults = true
	case ShapeNestedHouse, ShapeNestedGrade:
		for i, item := range doc["winners"].([]any) {
			m, ok := item.(map[string]any)
			if !ok {
				warn(fmt.Sprintf("winners[%d]", i), "not an object, skipped")
				continue
			}
			w, ws := normalizeWinner(id, m, table, typ, false)
			warns = append(warns, ws...)
			e.Winners = append(e.Winners, w)
		}
		e.HasResults = true
		if v, ok := doc["hasResults"].(bool); ok {
			e.HasResults = v
		}
	default:
		e.Winners = []models.WinnerEntry{}
		if v, ok := doc["hasResults"].(bool); ok && v {
			warn("hasResults", "set without any winners")
		}
	}

	return e, warns
}

// normalizeWinner converts one legacy winner. Flat documents never stored
// points, so their points come from the table when absent. Nested winners
// without a usable number score 0.
func normalizeWinner(id string, m map[string]any, table scoring.ScoringTable, typ models.EventType, flat bool) (models.WinnerEntry, []Warning) {
	var warns []Warning
	w := models.WinnerEntry{
		BucketRef:    BucketRef(m),
		StudentName:  stringField(m, "studentName"),
		StudentClass: stringField(m, "studentClass"),
		Image:        stringField(m, "image"),
	}
	if w.BucketRef == "" {
		warns = append(warns, Warning{EventID: id, Field: "winner", Message: "no house or grade-section"})
	}

	pos, ok := intField(m, "position")
	if !ok {
		warns = append(warns, Warning{EventID: id, Field: "position", Message: fmt.Sprintf("not a whole number: %v", m["position"])})
	}
	w.Position = pos

	raw := m["points"]
	pts, ok := intField(m, "points")
	switch {
	case ok:
		w.Points = pts
		w.PointsMode = models.PointsOverride
	case flat:
		if raw != nil {
			warns = append(warns, Warning{EventID: id, Field: "points", Message: fmt.Sprintf("not a whole number: %v, using table", raw)})
		}
		w.Points = table.Points(pos, typ)
		w.PointsMode = models.PointsComputed
	default:
		msg := "missing, counted as 0"
		if raw != nil {
			msg = fmt.Sprintf("not a whole number: %v, counted as 0", raw)
		}
		warns = append(warns, Warning{EventID: id, Field: "points", Message: msg})
		w.Points = 0
		w.PointsMode = models.PointsOverride
	}
	return w, warns
}

// BucketRef extracts the bucket key a legacy winner refers to. A grade and
// section pair wins over a house name.
func BucketRef(m map[string]any) string {
	if gs := strings.TrimSpace(stringField(m, "gradeSection")); gs != "" {
		return strings.ToUpper(gs)
	}
	grade := strings.TrimSpace(stringField(m, "grade"))
	section := strings.TrimSpace(stringField(m, "section"))
	if grade != "" && section != "" {
		return scoring.GradeSectionKey(strings.ToUpper(grade), strings.ToUpper(section))
	}
	if h := strings.TrimSpace(stringField(m, "house")); h != "" {
		return cases.Title(language.English).String(h)
	}
	return ""
}

func parseEventType(s string) (models.EventType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "individual":
		return models.Individual, true
	case "group", "team":
		return models.Group, true
	default:
		return models.Individual, false
	}
}

func hasString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// intField reads a whole number stored as a number or numeric string.
// Fractions and values outside the int range are rejected.
func intField(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case int:
		return v, true
	case int64:
		if int64(int(v)) != v {
			return 0, false
		}
		return int(v), true
	case float64:
		return wholeInt(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			if int64(int(n)) != n {
				return 0, false
			}
			return int(n), true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return wholeInt(f)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func wholeInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return 0, false
	}
	return int(f), true
}
