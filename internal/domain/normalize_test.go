package domain

import (
	"testing"
)

func TestNormalizeAttributesEmptyMetadata(t *testing.T) {
	attrs := NormalizeAttributes(Product{ID: 1, Name: "Untitled"})

	if attrs.Genre != "" || attrs.Mood != "" || attrs.MusicKey != "" || attrs.AudioURL != "" {
		t.Fatalf("expected empty text attributes, got %#v", attrs)
	}
	if attrs.BPM != nil {
		t.Fatalf("expected absent bpm, got %d", *attrs.BPM)
	}
}

func TestNormalizeAttributesExtractsKnownKeys(t *testing.T) {
	product := Product{
		ID: 7,
		MetaData: []MetadataPair{
			{Key: "genre", Value: "Trap"},
			{Key: "bpm", Value: "145"},
			{Key: "mood", Value: "Dark"},
			{Key: "key", Value: "C# Minor"},
			{Key: "audio_url", Value: "https://cdn.example.com/preview/7.mp3"},
			{Key: "_internal", Value: "ignored"},
		},
	}

	attrs := NormalizeAttributes(product)

	if attrs.Genre != "Trap" {
		t.Fatalf("expected genre Trap, got %q", attrs.Genre)
	}
	if attrs.BPM == nil || *attrs.BPM != 145 {
		t.Fatalf("expected bpm 145, got %v", attrs.BPM)
	}
	if attrs.Mood != "Dark" {
		t.Fatalf("expected mood Dark, got %q", attrs.Mood)
	}
	if attrs.MusicKey != "C# Minor" {
		t.Fatalf("expected key C# Minor, got %q", attrs.MusicKey)
	}
	if attrs.AudioURL != "https://cdn.example.com/preview/7.mp3" {
		t.Fatalf("unexpected audio url %q", attrs.AudioURL)
	}
}

func TestNormalizeAttributesDuplicateKeyLastWins(t *testing.T) {
	product := Product{
		MetaData: []MetadataPair{
			{Key: "genre", Value: "Trap"},
			{Key: "genre", Value: "Lo-Fi"},
		},
	}

	attrs := NormalizeAttributes(product)
	if attrs.Genre != "Lo-Fi" {
		t.Fatalf("expected last duplicate to win, got %q", attrs.Genre)
	}
}

func TestNormalizeAttributesMalformedBPM(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want *int
	}{
		{name: "not a number", raw: "fast", want: nil},
		{name: "decimal", raw: "140.5", want: nil},
		{name: "empty", raw: "", want: nil},
		{name: "padded", raw: " 128 ", want: intPtr(128)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product := Product{MetaData: []MetadataPair{{Key: "bpm", Value: tc.raw}}}
			attrs := NormalizeAttributes(product)
			switch {
			case tc.want == nil && attrs.BPM != nil:
				t.Fatalf("expected absent bpm for %q, got %d", tc.raw, *attrs.BPM)
			case tc.want != nil && (attrs.BPM == nil || *attrs.BPM != *tc.want):
				t.Fatalf("expected bpm %d for %q, got %v", *tc.want, tc.raw, attrs.BPM)
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
