package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rarebeats/api/internal/domain"
	"github.com/rarebeats/api/internal/platform/requestctx"
	"github.com/rarebeats/api/internal/repositories"
	"github.com/rarebeats/api/internal/woocommerce"
)

var errCatalogSourceRequired = errors.New("catalog service: catalog source is required")

const (
	defaultCatalogPerPage = 50
	defaultFacetScanSize  = 100
)

// ErrProductNotFound indicates the requested product does not exist upstream.
var ErrProductNotFound = errors.New("catalog service: product not found")

// ErrCatalogUnavailable indicates the upstream store could not be reached or answered with an error.
var ErrCatalogUnavailable = errors.New("catalog service: upstream unavailable")

// CatalogServiceDeps wires the upstream source and tuning knobs for catalog operations.
type CatalogServiceDeps struct {
	Catalog        repositories.CatalogSource
	DefaultPerPage int
	FacetScanSize  int
}

type catalogService struct {
	catalog        repositories.CatalogSource
	defaultPerPage int
	facetScanSize  int
}

// NewCatalogService constructs a CatalogService enforcing dependency validation.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Catalog == nil {
		return nil, errCatalogSourceRequired
	}

	perPage := deps.DefaultPerPage
	if perPage <= 0 {
		perPage = defaultCatalogPerPage
	}
	scanSize := deps.FacetScanSize
	if scanSize <= 0 {
		scanSize = defaultFacetScanSize
	}

	return &catalogService{
		catalog:        deps.Catalog,
		defaultPerPage: perPage,
		facetScanSize:  scanSize,
	}, nil
}

// ListProducts fetches one upstream page and applies the metadata filters in process.
func (s *catalogService) ListProducts(ctx context.Context, criteria domain.FilterCriteria) (ProductPage, error) {
	if criteria.Page <= 0 {
		criteria.Page = 1
	}
	if criteria.PerPage <= 0 {
		criteria.PerPage = s.defaultPerPage
	}

	products, err := s.catalog.ListProducts(ctx, criteria.Page, criteria.PerPage)
	if err != nil {
		return ProductPage{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	filtered := domain.FilterProducts(products, criteria)
	return ProductPage{
		Products: filtered,
		Total:    len(filtered),
		Page:     criteria.Page,
	}, nil
}

// GetProduct loads a single product and resolves its declared variations.
func (s *catalogService) GetProduct(ctx context.Context, id int64) (ProductDetail, error) {
	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		if woocommerce.IsNotFound(err) {
			return ProductDetail{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
		}
		return ProductDetail{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	detail := ProductDetail{
		FilteredProduct: domain.FilteredProduct{
			Product:    product,
			Attributes: domain.NormalizeAttributes(product),
		},
	}

	if len(product.Variations) == 0 {
		return detail, nil
	}

	variations, err := s.catalog.ListVariations(ctx, id)
	if err != nil {
		// An upstream error response leaves the product usable without
		// variation pricing; transport failures abort the request.
		var upstream *woocommerce.UpstreamError
		if errors.As(err, &upstream) && !upstream.IsTransport() {
			requestctx.Logger(ctx).Warn("catalog: variations fetch failed",
				zap.Int64("product_id", id),
				zap.Error(err),
			)
			return detail, nil
		}
		return ProductDetail{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	detail.Variations = variations
	return detail, nil
}

// GetFacets aggregates distinct metadata values over one wide catalog scan.
// Upstream failures degrade to the default facet set so the storefront UI keeps rendering.
func (s *catalogService) GetFacets(ctx context.Context) (domain.FacetSummary, error) {
	products, err := s.catalog.ListProducts(ctx, 1, s.facetScanSize)
	if err != nil {
		requestctx.Logger(ctx).Warn("catalog: facet scan failed, serving defaults", zap.Error(err))
		return domain.DefaultFacets(), nil
	}
	return domain.AggregateFacets(products), nil
}
