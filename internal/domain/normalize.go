package domain

import (
	"strconv"
	"strings"
)

// Metadata keys the platform storefront understands. Everything else in the
// metadata list is ignored.
const (
	MetaKeyGenre    = "genre"
	MetaKeyBPM      = "bpm"
	MetaKeyMood     = "mood"
	MetaKeyMusicKey = "key"
	MetaKeyAudioURL = "audio_url"
)

// NormalizeAttributes derives the typed attribute bag from a product's
// metadata list. It is pure and total: malformed or missing metadata
// degrades to empty strings (text fields) or absence (bpm), never an error,
// so one bad product cannot fail an entire catalog page.
//
// Duplicate keys resolve last-wins: the list is walked in order and later
// entries overwrite earlier ones.
func NormalizeAttributes(product Product) TrackAttributes {
	meta := make(map[string]string, len(product.MetaData))
	for _, pair := range product.MetaData {
		meta[pair.Key] = pair.Value
	}

	attrs := TrackAttributes{
		Genre:    meta[MetaKeyGenre],
		Mood:     meta[MetaKeyMood],
		MusicKey: meta[MetaKeyMusicKey],
		AudioURL: meta[MetaKeyAudioURL],
	}

	if raw, ok := meta[MetaKeyBPM]; ok {
		if bpm, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			attrs.BPM = &bpm
		}
	}

	return attrs
}
