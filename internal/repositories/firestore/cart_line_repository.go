package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/rarebeats/api/internal/domain"
	pfirestore "github.com/rarebeats/api/internal/platform/firestore"
	"github.com/rarebeats/api/internal/repositories"
)

const (
	cartCollection     = "carts"
	cartItemCollection = "items"
)

// CartLineRepository persists cart lines under carts/{cartKey}/items.
type CartLineRepository struct {
	provider *pfirestore.Provider
}

// NewCartLineRepository constructs a Firestore-backed cart line repository.
func NewCartLineRepository(provider *pfirestore.Provider) (*CartLineRepository, error) {
	if provider == nil {
		return nil, errors.New("cart line repository requires firestore provider")
	}
	return &CartLineRepository{provider: provider}, nil
}

// Insert stores the line as a single document create. The line id doubles as
// the document id, so a duplicate insert fails instead of overwriting.
func (r *CartLineRepository) Insert(ctx context.Context, cartKey string, line domain.CartLine) error {
	base, err := r.base(cartKey)
	if err != nil {
		return err
	}
	if strings.TrimSpace(line.ID) == "" {
		return errors.New("cart line repository: line id is required")
	}

	doc := cartLineDocument{
		ProductID:   line.ProductID,
		VariationID: line.VariationID,
		Name:        line.Name,
		LicenseType: line.LicenseType,
		Price:       line.Price,
		AudioURL:    line.AudioURL,
		ImageURL:    line.ImageURL,
		CreatedAt:   line.CreatedAt.UTC(),
	}
	return base.Create(ctx, line.ID, doc)
}

// List returns the cart's lines in insertion order. Ordering happens in
// memory because historical documents may carry string-encoded timestamps
// that Firestore would sort separately from native ones.
func (r *CartLineRepository) List(ctx context.Context, cartKey string) ([]domain.CartLine, error) {
	base, err := r.base(cartKey)
	if err != nil {
		return nil, err
	}

	docs, err := base.Query(ctx, nil)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.CartLine, 0, len(docs))
	for _, doc := range docs {
		line := doc.Data
		line.ID = doc.ID
		if line.CreatedAt.IsZero() {
			line.CreatedAt = doc.CreateTime
		}
		lines = append(lines, line)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if !lines[i].CreatedAt.Equal(lines[j].CreatedAt) {
			return lines[i].CreatedAt.Before(lines[j].CreatedAt)
		}
		return lines[i].ID < lines[j].ID
	})
	return lines, nil
}

// Delete removes a single line, failing with a not-found classification when
// no document with the id exists.
func (r *CartLineRepository) Delete(ctx context.Context, cartKey, lineID string) error {
	base, err := r.base(cartKey)
	if err != nil {
		return err
	}
	return base.Delete(ctx, lineID, true)
}

// DeleteAll removes every line of the cart; clearing an empty cart is a
// silent no-op.
func (r *CartLineRepository) DeleteAll(ctx context.Context, cartKey string) error {
	base, err := r.base(cartKey)
	if err != nil {
		return err
	}
	return base.DeleteMatching(ctx, nil)
}

func (r *CartLineRepository) base(cartKey string) (*pfirestore.BaseRepository[domain.CartLine], error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("cart line repository not initialised")
	}
	key := strings.TrimSpace(cartKey)
	if key == "" {
		return nil, errors.New("cart line repository: cart key is required")
	}
	path := fmt.Sprintf("%s/%s/%s", cartCollection, key, cartItemCollection)
	return pfirestore.NewBaseRepository(r.provider, path, decodeCartLine), nil
}

func decodeCartLine(snap *firestore.DocumentSnapshot) (domain.CartLine, error) {
	line, err := cartLineFromData(snap.Data())
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("cart line %s: %w", snap.Ref.ID, err)
	}
	return line, nil
}

// cartLineFromData reads a line document, accepting both native timestamp
// and ISO-8601 string encodings for createdAt since encoding may vary by
// write path.
func cartLineFromData(data map[string]any) (domain.CartLine, error) {
	line := domain.CartLine{
		ProductID:   asInt64(data["productId"]),
		Name:        asString(data["name"]),
		LicenseType: asString(data["licenseType"]),
		Price:       asFloat64(data["price"]),
		AudioURL:    asString(data["audioUrl"]),
		ImageURL:    asString(data["imageUrl"]),
	}

	if raw, ok := data["variationId"]; ok && raw != nil {
		id := asInt64(raw)
		line.VariationID = &id
	}

	switch ts := data["createdAt"].(type) {
	case time.Time:
		line.CreatedAt = ts.UTC()
	case string:
		parsed, err := parseTimestamp(ts)
		if err != nil {
			return domain.CartLine{}, fmt.Errorf("invalid createdAt %q: %w", ts, err)
		}
		line.CreatedAt = parsed
	}

	return line, nil
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999999"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unrecognised timestamp layout")
}

func asString(value any) string {
	s, _ := value.(string)
	return s
}

func asInt64(value any) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func asFloat64(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// cartLineDocument is the write-path shape; reads go through decodeCartLine
// to tolerate older encodings.
type cartLineDocument struct {
	ProductID   int64     `firestore:"productId"`
	VariationID *int64    `firestore:"variationId,omitempty"`
	Name        string    `firestore:"name"`
	LicenseType string    `firestore:"licenseType"`
	Price       float64   `firestore:"price"`
	AudioURL    string    `firestore:"audioUrl"`
	ImageURL    string    `firestore:"imageUrl,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

var _ repositories.CartLineRepository = (*CartLineRepository)(nil)
