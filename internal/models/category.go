package models

// CategoryVersion is bumped whenever the set of canonical categories changes.
// Stored events carry canonical values only; older labels are mapped through
// the legacy adapter at ingestion.
const CategoryVersion = 2

// Category is the canonical age group an event belongs to
type Category string

const (
	CategoryCat1   Category = "cat1"
	CategoryCat2   Category = "cat2"
	CategoryCat3   Category = "cat3"
	CategoryCat4   Category = "cat4"
	CategoryCat5   Category = "cat5"
	CategoryJunior Category = "junior"
	CategoryMiddle Category = "middle"
	CategorySenior Category = "senior"
	CategoryAll    Category = "all"
)

var categoryLabels = map[Category]string{
	CategoryCat1:   "Cat 1 (LKG-UKG)",
	CategoryCat2:   "Cat 2 (Class 1-2)",
	CategoryCat3:   "Cat 3 (Class 3-5)",
	CategoryCat4:   "Cat 4 (Class 6-8)",
	CategoryCat5:   "Cat 5 (Class 9-12)",
	CategoryJunior: "Junior (1-5)",
	CategoryMiddle: "Middle (6-8)",
	CategorySenior: "Senior (9-12)",
	CategoryAll:    "All Categories",
}

// Categories returns the canonical categories in display order
func Categories() []Category {
	return []Category{
		CategoryCat1, CategoryCat2, CategoryCat3, CategoryCat4, CategoryCat5,
		CategoryJunior, CategoryMiddle, CategorySenior, CategoryAll,
	}
}

// Known reports whether c is one of the canonical categories
func (c Category) Known() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display label. Unknown values are shown verbatim.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}
