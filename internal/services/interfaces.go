package services

import (
	"context"

	"github.com/rarebeats/api/internal/domain"
)

// ProductPage holds one page of filtered catalog results.
type ProductPage struct {
	Products []domain.FilteredProduct
	Total    int
	Page     int
}

// ProductDetail combines a filtered product with its resolved variations.
type ProductDetail struct {
	domain.FilteredProduct
	Variations []domain.Variation
}

// CheckoutLink carries the storefront checkout redirect for a cart.
type CheckoutLink struct {
	URL        string
	TotalItems int
}

// CatalogService exposes read operations over the upstream product catalog.
type CatalogService interface {
	ListProducts(ctx context.Context, criteria domain.FilterCriteria) (ProductPage, error)
	GetProduct(ctx context.Context, id int64) (ProductDetail, error)
	GetFacets(ctx context.Context) (domain.FacetSummary, error)
}

// CartService manages the session-keyed cart ledger.
type CartService interface {
	AddLine(ctx context.Context, cartKey string, input domain.CartLineInput) (domain.CartLine, error)
	GetCart(ctx context.Context, cartKey string) (domain.Cart, error)
	RemoveLine(ctx context.Context, cartKey, lineID string) error
	ClearCart(ctx context.Context, cartKey string) error
}

// CheckoutService builds storefront checkout redirects from cart contents.
type CheckoutService interface {
	CreateCheckoutLink(ctx context.Context, cartKey string) (CheckoutLink, error)
}
