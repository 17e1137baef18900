package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rarebeats/api/internal/domain"
	"github.com/rarebeats/api/internal/repositories"
)

var errCartRepositoryRequired = errors.New("cart service: repository is required")

// defaultCartKey is used when the caller supplies no session identifier, so
// anonymous shoppers still share one well-known cart.
const defaultCartKey = "default"

// ErrCartLineNotFound indicates the requested cart line does not exist.
var ErrCartLineNotFound = errors.New("cart service: line not found")

// ErrCartUnavailable indicates the cart backend cannot fulfil the request.
var ErrCartUnavailable = errors.New("cart service: unavailable")

// CartServiceDeps wires the ledger repository and injectable clock/id sources.
type CartServiceDeps struct {
	Lines       repositories.CartLineRepository
	Clock       func() time.Time
	IDGenerator func() string
}

type cartService struct {
	lines repositories.CartLineRepository
	now   func() time.Time
	newID func() string
}

// NewCartService constructs a CartService enforcing dependency validation.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Lines == nil {
		return nil, errCartRepositoryRequired
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}

	return &cartService{
		lines: deps.Lines,
		now:   func() time.Time { return clock().UTC() },
		newID: idGen,
	}, nil
}

// AddLine freezes the supplied snapshot into a new immutable cart line.
func (s *cartService) AddLine(ctx context.Context, cartKey string, input domain.CartLineInput) (domain.CartLine, error) {
	key := normalizeCartKey(cartKey)

	line := domain.CartLine{
		ID:          s.newID(),
		ProductID:   input.ProductID,
		VariationID: input.VariationID,
		Name:        input.Name,
		LicenseType: input.LicenseType,
		Price:       input.Price,
		AudioURL:    input.AudioURL,
		ImageURL:    input.ImageURL,
		CreatedAt:   s.now(),
	}

	if err := s.lines.Insert(ctx, key, line); err != nil {
		return domain.CartLine{}, fmt.Errorf("%w: %v", ErrCartUnavailable, err)
	}
	return line, nil
}

// GetCart loads every line for the key and derives the cart view.
func (s *cartService) GetCart(ctx context.Context, cartKey string) (domain.Cart, error) {
	key := normalizeCartKey(cartKey)

	lines, err := s.lines.List(ctx, key)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%w: %v", ErrCartUnavailable, err)
	}

	return domain.Cart{
		Key:   key,
		Lines: lines,
		Total: domain.ComputeTotal(lines),
	}, nil
}

// RemoveLine deletes a single line, reporting absence distinctly.
func (s *cartService) RemoveLine(ctx context.Context, cartKey, lineID string) error {
	key := normalizeCartKey(cartKey)

	if err := s.lines.Delete(ctx, key, lineID); err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("%w: id %s", ErrCartLineNotFound, lineID)
		}
		return fmt.Errorf("%w: %v", ErrCartUnavailable, err)
	}
	return nil
}

// ClearCart removes every line for the key. Clearing an empty cart succeeds.
func (s *cartService) ClearCart(ctx context.Context, cartKey string) error {
	key := normalizeCartKey(cartKey)

	if err := s.lines.DeleteAll(ctx, key); err != nil {
		return fmt.Errorf("%w: %v", ErrCartUnavailable, err)
	}
	return nil
}

func normalizeCartKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return defaultCartKey
	}
	return trimmed
}
