// Package track defines the per-frame tracked-object data model and the
// session statistics maintained over a stream of track batches.
//
// Objects are produced once per frame by the external detector/tracker and
// are not retained after the frame's statistics update and render complete.
package track

import "fmt"

// Box is an axis-aligned bounding box in pixel coordinates, with
// X1 < X2 and Y1 < Y2.
type Box struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Width returns the box width in pixels.
func (b Box) Width() int { return b.X2 - b.X1 }

// Height returns the box height in pixels.
func (b Box) Height() int { return b.Y2 - b.Y1 }

// Valid reports whether the box has positive area.
func (b Box) Valid() bool { return b.X1 < b.X2 && b.Y1 < b.Y2 }

// Object is one detection in one frame. ID is the persistent identity
// assigned by the tracker; it is nil while the object is new or lost, in
// which case the detection cannot be attributed to a unique object.
type Object struct {
	ID         *int64  `json:"track_id,omitempty"`
	Box        Box     `json:"box"`
	Confidence float64 `json:"confidence"`
	Class      int     `json:"class"`
}

// Label returns the overlay label for the object, e.g. "ID:4 (0.87)".
// Objects without an identity are labelled with their class instead.
func (o Object) Label() string {
	if o.ID == nil {
		return fmt.Sprintf("cls:%d (%.2f)", o.Class, o.Confidence)
	}
	return fmt.Sprintf("ID:%d (%.2f)", *o.ID, o.Confidence)
}

// Batch is the ordered set of tracked objects for one frame. It may be
// empty when no detection passes the confidence/class filter.
type Batch []Object

// IdentifiedIDs returns the distinct identities present in the batch, in
// first-seen order. Objects without an identity are skipped.
func (b Batch) IdentifiedIDs() []int64 {
	seen := make(map[int64]bool, len(b))
	ids := make([]int64, 0, len(b))
	for _, o := range b {
		if o.ID == nil || seen[*o.ID] {
			continue
		}
		seen[*o.ID] = true
		ids = append(ids, *o.ID)
	}
	return ids
}
