package gesture

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ayusman/mudra/internal/detector"
)

// Template is a user-recorded static hand pose. Landmarks are stored
// normalized (wrist at origin, unit wrist-to-middle-MCP scale).
type Template struct {
	ID        string
	Name      string
	Landmarks []detector.Point3D
	// Tolerance is the maximum summed landmark distance that still
	// counts as a match.
	Tolerance float64
}

// TemplateMatch pairs a matched template with its score.
type TemplateMatch struct {
	Template *Template
	// Score is 1/(1+distance); higher is better.
	Score    float64
	Distance float64
}

// Matcher matches hands against recorded templates. It is safe for
// concurrent use: the pipeline matches every frame while the API
// adds and removes templates.
type Matcher struct {
	mu        sync.RWMutex
	templates []*Template
}

// NewMatcher creates an empty Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Add registers a template. Nil templates are ignored.
func (m *Matcher) Add(t *Template) {
	if t == nil {
		return
	}
	m.mu.Lock()
	m.templates = append(m.templates, t)
	m.mu.Unlock()
}

// Remove drops the template with the given ID.
func (m *Matcher) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.templates {
		if t.ID == id {
			m.templates = append(m.templates[:i], m.templates[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered templates.
func (m *Matcher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.templates)
}

// Match normalizes the hand and returns templates within tolerance,
// best score first.
func (m *Matcher) Match(h *detector.Hand) []TemplateMatch {
	if h == nil {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.templates) == 0 {
		return nil
	}

	normalized := h.Normalize()
	input := normalized.Points[:]

	var matches []TemplateMatch
	for _, t := range m.templates {
		d := landmarkSetDistance(input, t.Landmarks)
		if d > t.Tolerance {
			continue
		}
		matches = append(matches, TemplateMatch{
			Template: t,
			Score:    1.0 / (1.0 + d),
			Distance: d,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// landmarkSetDistance sums pointwise Euclidean distances between two
// landmark sets, up to the shorter length.
func landmarkSetDistance(a, b []detector.Point3D) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var total float64
	for i := 0; i < n; i++ {
		total += detector.Distance(a[i], b[i])
	}
	return total
}

// Train averages several recorded landmark samples into template
// landmarks. All samples must have the same landmark count.
func Train(samples [][]detector.Point3D) ([]detector.Point3D, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples provided")
	}

	numPoints := len(samples[0])
	if numPoints == 0 {
		return nil, fmt.Errorf("sample 0 has no landmarks")
	}
	for i, s := range samples {
		if len(s) != numPoints {
			return nil, fmt.Errorf("sample %d has %d landmarks, expected %d", i, len(s), numPoints)
		}
	}

	avg := make([]detector.Point3D, numPoints)
	for _, s := range samples {
		for i, p := range s {
			avg[i].X += p.X
			avg[i].Y += p.Y
			avg[i].Z += p.Z
		}
	}

	n := float64(len(samples))
	for i := range avg {
		avg[i].X /= n
		avg[i].Y /= n
		avg[i].Z /= n
	}

	return avg, nil
}
