package legacy

import (
	"strings"

	"github.com/abrezinsky/sportsday/internal/models"
)

// categoryMigrations maps every label ever written to the category field,
// lowercased, onto the canonical category.
var categoryMigrations = map[string]models.Category{
	"1":                  models.CategoryCat1,
	"cat1":               models.CategoryCat1,
	"cat 1":              models.CategoryCat1,
	"cat 1 (lkg-ukg)":    models.CategoryCat1,
	"2":                  models.CategoryCat2,
	"cat2":               models.CategoryCat2,
	"cat 2":              models.CategoryCat2,
	"cat 2 (class 1-2)":  models.CategoryCat2,
	"3":                  models.CategoryCat3,
	"cat3":               models.CategoryCat3,
	"cat 3":              models.CategoryCat3,
	"cat 3 (class 3-5)":  models.CategoryCat3,
	"4":                  models.CategoryCat4,
	"cat4":               models.CategoryCat4,
	"cat 4":              models.CategoryCat4,
	"cat 4 (class 6-8)":  models.CategoryCat4,
	"5":                  models.CategoryCat5,
	"cat5":               models.CategoryCat5,
	"cat 5":              models.CategoryCat5,
	"cat 5 (class 9-12)": models.CategoryCat5,
	"junior":             models.CategoryJunior,
	"junior (1-5)":       models.CategoryJunior,
	"middle":             models.CategoryMiddle,
	"middle (6-8)":       models.CategoryMiddle,
	"senior":             models.CategorySenior,
	"senior (9-12)":      models.CategorySenior,
	"all":                models.CategoryAll,
	"all categories":     models.CategoryAll,
}

// ResolveCategory maps a stored category label onto the canonical
// enumeration. Empty input means the event is open to everyone; labels
// that were never part of any layout are kept verbatim.
func ResolveCategory(raw string) models.Category {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return models.CategoryAll
	}
	if c, ok := categoryMigrations[key]; ok {
		return c
	}
	if c := models.Category(key); c.Known() {
		return c
	}
	return models.Category(strings.TrimSpace(raw))
}
