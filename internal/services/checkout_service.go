package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rarebeats/api/internal/domain"
)

var (
	errCheckoutCartRequired    = errors.New("checkout service: cart service is required")
	errCheckoutBaseURLRequired = errors.New("checkout service: store base url is required")
)

// ErrCartEmpty indicates checkout was requested for a cart without lines.
var ErrCartEmpty = errors.New("checkout service: cart is empty")

type cartReader interface {
	GetCart(ctx context.Context, cartKey string) (domain.Cart, error)
}

// CheckoutServiceDeps wires the cart reader and storefront location.
type CheckoutServiceDeps struct {
	Cart    cartReader
	BaseURL string
}

type checkoutService struct {
	cart    cartReader
	baseURL string
}

// NewCheckoutService constructs a CheckoutService enforcing dependency validation.
func NewCheckoutService(deps CheckoutServiceDeps) (CheckoutService, error) {
	if deps.Cart == nil {
		return nil, errCheckoutCartRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(deps.BaseURL), "/")
	if baseURL == "" {
		return nil, errCheckoutBaseURLRequired
	}

	return &checkoutService{
		cart:    deps.Cart,
		baseURL: baseURL,
	}, nil
}

// CreateCheckoutLink renders the storefront add-to-cart redirect for every
// line in the cart. The storefront parses the " &" joiner between fragments
// verbatim, so the separator must not change.
func (s *checkoutService) CreateCheckoutLink(ctx context.Context, cartKey string) (CheckoutLink, error) {
	cart, err := s.cart.GetCart(ctx, cartKey)
	if err != nil {
		return CheckoutLink{}, err
	}
	if len(cart.Lines) == 0 {
		return CheckoutLink{}, ErrCartEmpty
	}

	fragments := make([]string, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		fragment := fmt.Sprintf("add-to-cart=%d", line.ProductID)
		// A zero variation id means the simple product, same as no id at all.
		if line.VariationID != nil && *line.VariationID > 0 {
			fragment += fmt.Sprintf("&variation_id=%d", *line.VariationID)
		}
		fragments = append(fragments, fragment)
	}

	return CheckoutLink{
		URL:        s.baseURL + "/cart/?" + strings.Join(fragments, " &"),
		TotalItems: len(cart.Lines),
	}, nil
}
