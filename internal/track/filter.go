package track

// Filter drops detections below a confidence threshold or outside a class
// allow-list before they reach the statistics engine.
type Filter struct {
	// MinConfidence is the inclusive lower bound on detection confidence.
	MinConfidence float64

	// Classes is the set of accepted class ids. A nil or empty set
	// accepts every class.
	Classes map[int]bool
}

// NewFilter builds a Filter from a threshold and a class id list.
func NewFilter(minConfidence float64, classes []int) Filter {
	f := Filter{MinConfidence: minConfidence}
	if len(classes) > 0 {
		f.Classes = make(map[int]bool, len(classes))
		for _, c := range classes {
			f.Classes[c] = true
		}
	}
	return f
}

// Apply returns the objects that pass the filter, preserving order. The
// input batch is never mutated.
func (f Filter) Apply(batch Batch) Batch {
	out := make(Batch, 0, len(batch))
	for _, o := range batch {
		if o.Confidence < f.MinConfidence {
			continue
		}
		if len(f.Classes) > 0 && !f.Classes[o.Class] {
			continue
		}
		out = append(out, o)
	}
	return out
}
