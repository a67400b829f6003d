package fontid

import (
	"fmt"
	"sort"
	"strings"
)

// LabeledScore is one classifier output slot.
type LabeledScore struct {
	Label string
	Score float64
}

func (s LabeledScore) String() string {
	return fmt.Sprintf("%s: %.4f", s.Label, s.Score)
}

// RankedPrediction is a score per font label ordered by descending score.
// Equal scores are ordered by label name so rankings are reproducible.
type RankedPrediction []LabeledScore

// Sort orders p in place by descending score, then ascending label.
func (p RankedPrediction) Sort() {
	sort.Slice(p, func(i, j int) bool {
		if p[i].Score != p[j].Score {
			return p[i].Score > p[j].Score
		}
		return p[i].Label < p[j].Label
	})
}

// Top returns the first n entries, or all of them when n <= 0 or n
// exceeds the length.
func (p RankedPrediction) Top(n int) RankedPrediction {
	if n <= 0 || n >= len(p) {
		return p
	}
	return p[:n]
}

// Labels returns the labels in ranking order.
func (p RankedPrediction) Labels() []string {
	labels := make([]string, len(p))
	for i, s := range p {
		labels[i] = s.Label
	}
	return labels
}

// Score returns the score of label and whether it is present.
func (p RankedPrediction) Score(label string) (float64, bool) {
	for _, s := range p {
		if s.Label == label {
			return s.Score, true
		}
	}
	return 0, false
}

// Total returns the sum of all scores.
func (p RankedPrediction) Total() float64 {
	var total float64
	for _, s := range p {
		total += s.Score
	}
	return total
}

func (p RankedPrediction) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
