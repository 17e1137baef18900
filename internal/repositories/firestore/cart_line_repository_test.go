package firestore

import (
	"testing"
	"time"
)

func TestCartLineFromDataNativeTimestamp(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	data := map[string]any{
		"productId":   int64(3),
		"variationId": int64(7),
		"name":        "Night Drive",
		"licenseType": "premium",
		"price":       49.99,
		"audioUrl":    "https://cdn.example.com/3.mp3",
		"imageUrl":    "https://cdn.example.com/3.jpg",
		"createdAt":   created,
	}

	line, err := cartLineFromData(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.ProductID != 3 || line.Name != "Night Drive" || line.LicenseType != "premium" {
		t.Fatalf("unexpected line %#v", line)
	}
	if line.VariationID == nil || *line.VariationID != 7 {
		t.Fatalf("expected variation id 7, got %v", line.VariationID)
	}
	if line.Price != 49.99 {
		t.Fatalf("expected price 49.99, got %v", line.Price)
	}
	if !line.CreatedAt.Equal(created) {
		t.Fatalf("expected createdAt %v, got %v", created, line.CreatedAt)
	}
}

func TestCartLineFromDataStringTimestamp(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "rfc3339", raw: "2025-06-01T12:30:00Z"},
		{name: "rfc3339 with offset", raw: "2025-06-01T14:30:00+02:00"},
		{name: "fractional no zone", raw: "2025-06-01T12:30:00.000123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			line, err := cartLineFromData(map[string]any{
				"productId": int64(9),
				"createdAt": tc.raw,
			})
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.raw, err)
			}
			want := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
			if !line.CreatedAt.Truncate(time.Second).Equal(want) {
				t.Fatalf("expected %v, got %v", want, line.CreatedAt)
			}
		})
	}
}

func TestCartLineFromDataRejectsGarbageTimestamp(t *testing.T) {
	_, err := cartLineFromData(map[string]any{
		"productId": int64(9),
		"createdAt": "yesterday-ish",
	})
	if err == nil {
		t.Fatal("expected error for unparseable timestamp")
	}
}

func TestCartLineFromDataMissingOptionalFields(t *testing.T) {
	line, err := cartLineFromData(map[string]any{
		"productId": int64(4),
		"name":      "Untitled",
		"price":     float64(0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.VariationID != nil {
		t.Fatalf("expected absent variation id, got %v", *line.VariationID)
	}
	if line.ImageURL != "" {
		t.Fatalf("expected empty image url, got %q", line.ImageURL)
	}
}

func TestCartLineFromDataNumericCoercion(t *testing.T) {
	// Firestore decodes JSON-imported documents with float64 numerics.
	line, err := cartLineFromData(map[string]any{
		"productId": float64(12),
		"price":     int64(30),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.ProductID != 12 {
		t.Fatalf("expected product id 12, got %d", line.ProductID)
	}
	if line.Price != 30 {
		t.Fatalf("expected price 30, got %v", line.Price)
	}
}
