package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rarebeats/api/internal/domain"
	"github.com/rarebeats/api/internal/platform/httpx"
	"github.com/rarebeats/api/internal/platform/pagination"
	"github.com/rarebeats/api/internal/services"
)

// ProductHandlers exposes the catalog listing, detail, and facet endpoints.
type ProductHandlers struct {
	catalog services.CatalogService
}

// NewProductHandlers constructs handlers over the catalog service.
func NewProductHandlers(catalog services.CatalogService) *ProductHandlers {
	return &ProductHandlers{catalog: catalog}
}

// Routes wires the /products endpoints onto the provided router.
func (h *ProductHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listProducts)
	r.Get("/{productID}", h.getProduct)
}

// FilterRoutes wires the /filters endpoint onto the provided router.
func (h *ProductHandlers) FilterRoutes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getFilters)
}

func (h *ProductHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	criteria, err := parseFilterCriteria(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	page, err := h.catalog.ListProducts(ctx, criteria)
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}

	products := make([]productPayload, 0, len(page.Products))
	for _, product := range page.Products {
		products = append(products, buildProductPayload(product))
	}

	writeJSONResponse(w, http.StatusOK, productListResponse{
		Products: products,
		Total:    page.Total,
		Page:     page.Page,
	})
}

func (h *ProductHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	raw := chi.URLParam(r, "productID")
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", fmt.Sprintf("invalid product id %q", raw), http.StatusBadRequest))
		return
	}

	detail, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}

	payload := productDetailPayload{productPayload: buildProductPayload(detail.FilteredProduct)}
	if detail.Variations != nil {
		variations := make([]variationPayload, 0, len(detail.Variations))
		for _, variation := range detail.Variations {
			variations = append(variations, buildVariationPayload(variation))
		}
		payload.VariationsData = variations
	}

	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *ProductHandlers) getFilters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	facets, err := h.catalog.GetFacets(ctx)
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, facetResponse{
		Genres: facets.Genres,
		Moods:  facets.Moods,
		Keys:   facets.Keys,
		BPMRange: bpmRangePayload{
			Min: facets.BPMRange.Min,
			Max: facets.BPMRange.Max,
		},
	})
}

func (h *ProductHandlers) writeCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	case errors.Is(err, services.ErrCatalogUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("upstream_unavailable", err.Error(), http.StatusBadGateway))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected error", http.StatusInternalServerError))
	}
}

func parseFilterCriteria(r *http.Request) (domain.FilterCriteria, error) {
	params, err := pagination.FromRequest(r, pagination.Options{})
	if err != nil {
		return domain.FilterCriteria{}, err
	}

	criteria := domain.FilterCriteria{
		Page:    params.Page,
		PerPage: params.PerPage,
	}

	query := r.URL.Query()
	if genre := strings.TrimSpace(query.Get("genre")); genre != "" {
		criteria.Genre = &genre
	}
	if mood := strings.TrimSpace(query.Get("mood")); mood != "" {
		criteria.Mood = &mood
	}
	if musicKey := strings.TrimSpace(query.Get("key")); musicKey != "" {
		criteria.MusicKey = &musicKey
	}

	var parseErr error
	parseBound := func(name string) *int {
		raw := strings.TrimSpace(query.Get(name))
		if raw == "" {
			return nil
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			parseErr = fmt.Errorf("%s must be an integer", name)
			return nil
		}
		return &value
	}

	criteria.BPMMin = parseBound("bpm_min")
	criteria.BPMMax = parseBound("bpm_max")
	if parseErr != nil {
		return domain.FilterCriteria{}, parseErr
	}

	return criteria, nil
}

type productListResponse struct {
	Products []productPayload `json:"products"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
}

type productPayload struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Status    string             `json:"status"`
	Permalink string             `json:"permalink,omitempty"`
	Price     string             `json:"price"`
	Images    []imagePayload     `json:"images"`
	MetaData  []metaDataPayload  `json:"meta_data"`
	Genre     string             `json:"genre"`
	BPM       *int               `json:"bpm"`
	Mood      string             `json:"mood"`
	MusicKey  string             `json:"music_key"`
	AudioURL  string             `json:"audio_url"`
}

type productDetailPayload struct {
	productPayload
	VariationsData []variationPayload `json:"variations_data,omitempty"`
}

type imagePayload struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

type metaDataPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type variationPayload struct {
	ID         int64                       `json:"id"`
	Price      string                      `json:"price"`
	Attributes []variationAttributePayload `json:"attributes"`
}

type variationAttributePayload struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

type facetResponse struct {
	Genres   []string        `json:"genres"`
	Moods    []string        `json:"moods"`
	Keys     []string        `json:"keys"`
	BPMRange bpmRangePayload `json:"bpm_range"`
}

type bpmRangePayload struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func buildProductPayload(product domain.FilteredProduct) productPayload {
	images := make([]imagePayload, 0, len(product.Images))
	for _, image := range product.Images {
		images = append(images, imagePayload{ID: image.ID, Src: image.Src, Alt: image.Alt})
	}

	meta := make([]metaDataPayload, 0, len(product.MetaData))
	for _, pair := range product.MetaData {
		meta = append(meta, metaDataPayload{Key: pair.Key, Value: pair.Value})
	}

	return productPayload{
		ID:        product.ID,
		Name:      product.Name,
		Status:    product.Status,
		Permalink: product.Permalink,
		Price:     product.Price,
		Images:    images,
		MetaData:  meta,
		Genre:     product.Attributes.Genre,
		BPM:       product.Attributes.BPM,
		Mood:      product.Attributes.Mood,
		MusicKey:  product.Attributes.MusicKey,
		AudioURL:  product.Attributes.AudioURL,
	}
}

func buildVariationPayload(variation domain.Variation) variationPayload {
	attrs := make([]variationAttributePayload, 0, len(variation.Attributes))
	for _, attr := range variation.Attributes {
		attrs = append(attrs, variationAttributePayload{Name: attr.Name, Option: attr.Option})
	}
	return variationPayload{ID: variation.ID, Price: variation.Price, Attributes: attrs}
}
