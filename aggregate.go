package fontid

import "sort"

// Aggregate fuses per-glyph predictions into one ranking for the page by
// adding up every label's scores. Each canonical label in labels starts
// at zero, so labels no glyph voted for rank last and an empty input
// yields every label at zero in alphabetical order. Labels outside the
// canonical set are kept. labels may be nil.
//
// Every glyph carries equal weight regardless of its size or confidence.
// The result does not depend on the order of predictions: each label's
// contributions are summed in ascending order so that floating point
// rounding is identical for any permutation.
func Aggregate(labels *LabelSet, predictions []RankedPrediction) RankedPrediction {
	contributions := make(map[string][]float64)
	var order []string
	add := func(label string) {
		if _, ok := contributions[label]; !ok {
			contributions[label] = nil
			order = append(order, label)
		}
	}

	if labels != nil {
		for _, name := range labels.names {
			add(name)
		}
	}
	for _, p := range predictions {
		for _, s := range p {
			add(s.Label)
			contributions[s.Label] = append(contributions[s.Label], s.Score)
		}
	}

	result := make(RankedPrediction, 0, len(order))
	for _, label := range order {
		scores := contributions[label]
		sort.Float64s(scores)
		var total float64
		for _, v := range scores {
			total += v
		}
		result = append(result, LabeledScore{Label: label, Score: total})
	}
	result.Sort()
	return result
}
