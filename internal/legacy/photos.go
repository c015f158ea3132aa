package legacy

import (
	"github.com/agnivade/levenshtein"

	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/scoring"
)

// Photo is a document from the old standalone winners collection, which
// held uploaded photos separately from the event.
type Photo struct {
	ID        string
	EventID   string
	BucketRef string
	Position  int
	Image     string
}

// ParsePhoto reads a legacy winners document. It reports false when the
// document has no image or does not say which event it belongs to.
func ParsePhoto(id string, doc map[string]any) (Photo, bool) {
	p := Photo{
		ID:        id,
		EventID:   stringField(doc, "eventId"),
		BucketRef: BucketRef(doc),
		Image:     stringField(doc, "image"),
	}
	if p.EventID == "" {
		p.EventID = stringField(doc, "event")
	}
	p.Position, _ = intField(doc, "position")
	if p.EventID == "" || p.Image == "" {
		return Photo{}, false
	}
	return p, true
}

// AttachPhotos copies legacy photos onto matching winners that do not have
// an image yet. It returns the number of photos attached.
func AttachPhotos(events []models.EventRecord, photos []Photo) int {
	byEvent := make(map[string][]Photo)
	for _, p := range photos {
		byEvent[p.EventID] = append(byEvent[p.EventID], p)
	}

	attached := 0
	for i := range events {
		for _, p := range byEvent[events[i].ID] {
			for j := range events[i].Winners {
				w := &events[i].Winners[j]
				if w.Image != "" || w.Position != p.Position {
					continue
				}
				if p.BucketRef != "" && w.BucketRef != p.BucketRef {
					continue
				}
				w.Image = p.Image
				attached++
				break
			}
		}
	}
	return attached
}

// Suggest returns the catalog key closest to an unmatched reference, for
// diagnostics. It reports false when nothing is reasonably close.
func Suggest(ref string, catalog scoring.Catalog) (string, bool) {
	if ref == "" {
		return "", false
	}
	best, bestDist := "", -1
	for _, key := range catalog.Keys() {
		d := levenshtein.ComputeDistance(ref, key)
		if bestDist < 0 || d < bestDist {
			best, bestDist = key, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(ref)/2) {
		return "", false
	}
	return best, true
}
