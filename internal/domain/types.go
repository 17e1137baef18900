package domain

import (
	"time"
)

// MetadataPair is a generic key/value entry attached to a catalog product.
// The commerce platform uses these to carry fields that are not part of its
// native product schema (genre, bpm, mood, key, audio preview).
type MetadataPair struct {
	Key   string
	Value string
}

// ProductImage references an image hosted by the commerce platform.
type ProductImage struct {
	ID  int64
	Src string
	Alt string
}

// Product is the raw catalog record as returned by the commerce platform.
// It is owned by the platform and never mutated here.
type Product struct {
	ID         int64
	Name       string
	Status     string
	Permalink  string
	Price      string
	Images     []ProductImage
	MetaData   []MetadataPair
	Variations []int64
}

// Variation is a purchasable variant of a product (e.g. a license tier).
type Variation struct {
	ID         int64
	Price      string
	Attributes []VariationAttribute
}

// VariationAttribute names the option a variation represents.
type VariationAttribute struct {
	Name   string
	Option string
}

// TrackAttributes is the typed attribute bag derived from a product's
// metadata list. A nil BPM means the product carries no parseable bpm value;
// callers must not conflate that with a bpm of zero.
type TrackAttributes struct {
	Genre    string
	BPM      *int
	Mood     string
	MusicKey string
	AudioURL string
}

// FilteredProduct pairs a raw product with its derived attributes so
// downstream consumers see both.
type FilteredProduct struct {
	Product
	Attributes TrackAttributes
}

// FilterCriteria captures the caller-supplied catalog filters. Nil pointers
// mean the corresponding test is inactive. String matches are exact but
// case-insensitive.
type FilterCriteria struct {
	Genre    *string
	Mood     *string
	MusicKey *string
	BPMMin   *int
	BPMMax   *int
	Page     int
	PerPage  int
}

// BPMRange bounds the bpm values observed across a product batch.
type BPMRange struct {
	Min int
	Max int
}

// FacetSummary lists the distinct filter-option values present in a scanned
// batch, sorted ascending, plus the observed bpm range.
type FacetSummary struct {
	Genres   []string
	Moods    []string
	Keys     []string
	BPMRange BPMRange
}

// CartLineInput carries the caller-provided fields for a new cart line.
type CartLineInput struct {
	ProductID   int64
	VariationID *int64
	Name        string
	LicenseType string
	Price       float64
	AudioURL    string
	ImageURL    string
}

// CartLine is a frozen snapshot of a product/variation/price chosen by the
// shopper. Lines are immutable once created; changing one means removing and
// re-adding.
type CartLine struct {
	ID          string
	ProductID   int64
	VariationID *int64
	Name        string
	LicenseType string
	Price       float64
	AudioURL    string
	ImageURL    string
	CreatedAt   time.Time
}

// Cart is the derived view over all lines of one cart key. It is recomputed
// on every read, never persisted.
type Cart struct {
	Key   string
	Lines []CartLine
	Total float64
}

// ComputeTotal sums the unit prices of the given lines.
func ComputeTotal(lines []CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Price
	}
	return total
}
