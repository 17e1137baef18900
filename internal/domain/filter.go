package domain

import (
	"strings"
)

// Matches reports whether the attributes satisfy every active criterion.
// Tests run in order genre, mood, key, bpm min, bpm max and stop at the
// first mismatch. A product without a parseable bpm is never excluded by
// either bpm bound: absence of data cannot disqualify.
func (c FilterCriteria) Matches(attrs TrackAttributes) bool {
	if c.Genre != nil && !strings.EqualFold(attrs.Genre, *c.Genre) {
		return false
	}
	if c.Mood != nil && !strings.EqualFold(attrs.Mood, *c.Mood) {
		return false
	}
	if c.MusicKey != nil && !strings.EqualFold(attrs.MusicKey, *c.MusicKey) {
		return false
	}
	if attrs.BPM != nil {
		if c.BPMMin != nil && *attrs.BPM < *c.BPMMin {
			return false
		}
		if c.BPMMax != nil && *attrs.BPM > *c.BPMMax {
			return false
		}
	}
	return true
}

// FilterProducts normalizes each product and keeps the ones matching the
// criteria, preserving their relative order. Survivors carry their derived
// attributes alongside the raw record. With no active criteria the input
// passes through unchanged.
func FilterProducts(products []Product, criteria FilterCriteria) []FilteredProduct {
	filtered := make([]FilteredProduct, 0, len(products))
	for _, product := range products {
		attrs := NormalizeAttributes(product)
		if !criteria.Matches(attrs) {
			continue
		}
		filtered = append(filtered, FilteredProduct{Product: product, Attributes: attrs})
	}
	return filtered
}
