package gesture

// DefaultHistorySize is the rolling window used to debounce per-frame
// classification flicker.
const DefaultHistorySize = 5

// History smooths the per-frame gesture stream with a majority vote over
// the most recent frames, so a single misclassified frame does not
// trigger an action.
type History struct {
	labels []Gesture
	size   int
}

// NewHistory creates a History over the given window size. Sizes below 1
// fall back to DefaultHistorySize.
func NewHistory(size int) *History {
	if size < 1 {
		size = DefaultHistorySize
	}
	return &History{
		labels: make([]Gesture, 0, size),
		size:   size,
	}
}

// Push records a frame's label and returns the current majority vote.
// Ties resolve to the most recently pushed of the tied labels.
func (h *History) Push(g Gesture) Gesture {
	if len(h.labels) >= h.size {
		copy(h.labels, h.labels[1:])
		h.labels = h.labels[:h.size-1]
	}
	h.labels = append(h.labels, g)

	counts := make(map[Gesture]int, len(h.labels))
	for _, label := range h.labels {
		counts[label]++
	}

	best := g
	bestCount := 0
	// Iterate newest to oldest so ties go to the most recent label.
	for i := len(h.labels) - 1; i >= 0; i-- {
		label := h.labels[i]
		if counts[label] > bestCount {
			best = label
			bestCount = counts[label]
		}
	}

	return best
}

// Reset clears the window, e.g. when the hand leaves the frame.
func (h *History) Reset() {
	h.labels = h.labels[:0]
}
