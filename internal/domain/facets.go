package domain

import (
	"sort"
)

// Default bpm slider bounds used when no product in a batch carries a
// parseable bpm. UI range sliders depend on these exact values.
const (
	DefaultBPMMin = 60
	DefaultBPMMax = 200
)

// DefaultFacets returns the empty facet summary with the default bpm range.
func DefaultFacets() FacetSummary {
	return FacetSummary{
		Genres:   []string{},
		Moods:    []string{},
		Keys:     []string{},
		BPMRange: BPMRange{Min: DefaultBPMMin, Max: DefaultBPMMax},
	}
}

// AggregateFacets scans a product batch and collects the distinct non-empty
// genre/mood/key values plus the observed bpm range. Value lists come back
// sorted ascending. An empty batch (or one without parseable bpm values)
// yields the default bpm range.
func AggregateFacets(products []Product) FacetSummary {
	genres := make(map[string]struct{})
	moods := make(map[string]struct{})
	keys := make(map[string]struct{})
	var bpms []int

	for _, product := range products {
		attrs := NormalizeAttributes(product)
		if attrs.Genre != "" {
			genres[attrs.Genre] = struct{}{}
		}
		if attrs.Mood != "" {
			moods[attrs.Mood] = struct{}{}
		}
		if attrs.MusicKey != "" {
			keys[attrs.MusicKey] = struct{}{}
		}
		if attrs.BPM != nil {
			bpms = append(bpms, *attrs.BPM)
		}
	}

	summary := FacetSummary{
		Genres:   sortedValues(genres),
		Moods:    sortedValues(moods),
		Keys:     sortedValues(keys),
		BPMRange: BPMRange{Min: DefaultBPMMin, Max: DefaultBPMMax},
	}

	if len(bpms) > 0 {
		min, max := bpms[0], bpms[0]
		for _, bpm := range bpms[1:] {
			if bpm < min {
				min = bpm
			}
			if bpm > max {
				max = bpm
			}
		}
		summary.BPMRange = BPMRange{Min: min, Max: max}
	}

	return summary
}

func sortedValues(set map[string]struct{}) []string {
	values := make([]string, 0, len(set))
	for value := range set {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}
