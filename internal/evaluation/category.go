package evaluation

import "sort"

// GainThreshold is one display tier: gains at or above MinGain fall into it
// unless a higher tier claims them first.
type GainThreshold struct {
	MinGain  float64  `json:"min_gain"`
	Category string   `json:"category"`
	Message  string   `json:"message"`
	GIFs     []string `json:"gifs,omitempty"`
}

// CategoryUncategorized is the sentinel for gains below every tier.
const CategoryUncategorized = "uncategorized"

// ClassifyGain assigns a gain to the highest tier whose MinGain it meets.
// Tiers sharing a MinGain keep their declaration order, so the first-declared
// tier wins. Total over all gains, including negative ones.
func ClassifyGain(gain float64, tiers []GainThreshold) GainThreshold {
	sorted := make([]GainThreshold, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinGain > sorted[j].MinGain
	})

	for _, tier := range sorted {
		if gain >= tier.MinGain {
			return tier
		}
	}

	return GainThreshold{Category: CategoryUncategorized}
}
