// Package scoring turns a snapshot of events into ranked standings.
//
// Every function here is pure: the same inputs always produce the same
// outputs and nothing is retained between calls.
package scoring

// Mode selects what kind of bucket is being ranked
type Mode string

const (
	ModeGradeSection Mode = "grade"
	ModeHouse        Mode = "house"
)

// Bucket is a scoring unit, either a grade-section or a house
type Bucket struct {
	Key     string `json:"key"`
	Level   string `json:"level,omitempty"`
	Section string `json:"section,omitempty"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
}

// LevelSections lists the sections that exist within one grade level
type LevelSections struct {
	Level    string   `json:"level" yaml:"level" validate:"required"`
	Sections []string `json:"sections" yaml:"sections" validate:"min=1,dive,required"`
}

// House is one of the fixed school houses
type House struct {
	Name  string `json:"name" yaml:"name" validate:"required"`
	Color string `json:"color" yaml:"color"`
}

// Catalog is the ordered set of buckets every winner must map onto
type Catalog struct {
	Mode    Mode     `json:"mode"`
	Levels  []string `json:"levels,omitempty"`
	Buckets []Bucket `json:"buckets"`

	index map[string]int
}

// DefaultGradeSections is the grade layout of the school
var DefaultGradeSections = []LevelSections{
	{Level: "LKG", Sections: []string{"A", "B", "C", "D", "E"}},
	{Level: "UKG", Sections: []string{"A", "B", "C", "D", "E"}},
	{Level: "1", Sections: []string{"A", "B", "C", "D", "E"}},
	{Level: "2", Sections: []string{"A", "B", "C", "D", "E"}},
	{Level: "3", Sections: []string{"A", "B", "C", "D", "E"}},
	{Level: "4", Sections: []string{"A", "B", "C", "D"}},
}

// DefaultHouses are the four school houses with their display colors
var DefaultHouses = []House{
	{Name: "Tagore", Color: "#ef4444"},
	{Name: "Delany", Color: "#3b82f6"},
	{Name: "Gandhi", Color: "#22c55e"},
	{Name: "Nehru", Color: "#eab308"},
}

// GradeSectionKey joins a level and section into the key used by winners
func GradeSectionKey(level, section string) string {
	return level + "-" + section
}

// BuildGradeCatalog produces one bucket per level and section, in level
// order and then section order.
func BuildGradeCatalog(levels []LevelSections) Catalog {
	c := Catalog{Mode: ModeGradeSection}
	for _, l := range levels {
		c.Levels = append(c.Levels, l.Level)
		for _, s := range l.Sections {
			key := GradeSectionKey(l.Level, s)
			c.Buckets = append(c.Buckets, Bucket{
				Key:     key,
				Level:   l.Level,
				Section: s,
				Name:    key,
			})
		}
	}
	c.reindex()
	return c
}

// BuildHouseCatalog produces one bucket per house
func BuildHouseCatalog(houses []House) Catalog {
	c := Catalog{Mode: ModeHouse}
	for _, h := range houses {
		c.Buckets = append(c.Buckets, Bucket{Key: h.Name, Name: h.Name, Color: h.Color})
	}
	c.reindex()
	return c
}

func (c *Catalog) reindex() {
	c.index = make(map[string]int, len(c.Buckets))
	for i, b := range c.Buckets {
		if _, dup := c.index[b.Key]; !dup {
			c.index[b.Key] = i
		}
	}
}

// Lookup finds the bucket with the given key
func (c Catalog) Lookup(key string) (Bucket, bool) {
	if c.index == nil {
		for _, b := range c.Buckets {
			if b.Key == key {
				return b, true
			}
		}
		return Bucket{}, false
	}
	i, ok := c.index[key]
	if !ok {
		return Bucket{}, false
	}
	return c.Buckets[i], true
}

// Keys returns the bucket keys in catalog order
func (c Catalog) Keys() []string {
	keys := make([]string, len(c.Buckets))
	for i, b := range c.Buckets {
		keys[i] = b.Key
	}
	return keys
}
