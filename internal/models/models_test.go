package models_test

import (
	"testing"

	"github.com/abrezinsky/sportsday/internal/models"
)

func TestCategory_Label(t *testing.T) {
	tests := []struct {
		cat  models.Category
		want string
	}{
		{models.CategoryCat1, "Cat 1 (LKG-UKG)"},
		{models.CategoryCat5, "Cat 5 (Class 9-12)"},
		{models.CategoryJunior, "Junior (1-5)"},
		{models.CategoryAll, "All Categories"},
		{models.Category("Relay Specials"), "Relay Specials"},
	}
	for _, tt := range tests {
		if got := tt.cat.Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestCategories_AllKnown(t *testing.T) {
	for _, c := range models.Categories() {
		if !c.Known() {
			t.Errorf("expected %q to be known", c)
		}
	}
	if models.Category("nope").Known() {
		t.Error("expected unknown category to report false")
	}
}

func TestEventType_Valid(t *testing.T) {
	if !models.Individual.Valid() || !models.Group.Valid() {
		t.Error("expected Individual and Group to be valid")
	}
	if models.EventType("Relay").Valid() {
		t.Error("expected Relay to be invalid")
	}
}

func TestWinnerEntry_IsOverride(t *testing.T) {
	w := models.WinnerEntry{PointsMode: models.PointsOverride}
	if !w.IsOverride() {
		t.Error("expected override entry")
	}
	w.PointsMode = models.PointsComputed
	if w.IsOverride() {
		t.Error("expected computed entry")
	}
	w.PointsMode = ""
	if w.IsOverride() {
		t.Error("expected empty mode to be treated as computed")
	}
}
