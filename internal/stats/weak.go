package stats

import "github.com/verte-zerg/cwterm/internal/model"

// SelectWeakChars returns up to top characters ordered from lowest accuracy.
// Characters never practiced are skipped.
func SelectWeakChars(aggs []model.CharAggregate, top int) []string {
	candidates := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Total > 0 && agg.Char != "" {
			candidates = append(candidates, agg)
		}
	}
	candidates = sortByAccuracy(candidates)
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]string, 0, top)
	for i := 0; i < top; i++ {
		out = append(out, candidates[i].Char)
	}
	return out
}
