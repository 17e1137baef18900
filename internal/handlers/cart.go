package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rarebeats/api/internal/domain"
	"github.com/rarebeats/api/internal/platform/httpx"
	"github.com/rarebeats/api/internal/platform/requestctx"
	"github.com/rarebeats/api/internal/services"
)

const maxCartBodySize = 16 * 1024

// CartHandlers exposes the session-keyed cart endpoints.
type CartHandlers struct {
	carts services.CartService
}

// NewCartHandlers constructs handlers over the cart service.
func NewCartHandlers(carts services.CartService) *CartHandlers {
	return &CartHandlers{carts: carts}
}

// Routes wires the /cart endpoints onto the provided router.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Use(CartSessionMiddleware())
	r.Post("/", h.addItem)
	r.Get("/", h.getCart)
	r.Delete("/{itemID}", h.removeItem)
	r.Delete("/", h.clearCart)
}

type addCartItemRequest struct {
	ProductID   *int64   `json:"product_id"`
	VariationID *int64   `json:"variation_id"`
	Name        *string  `json:"name"`
	LicenseType *string  `json:"license_type"`
	Price       *float64 `json:"price"`
	AudioURL    *string  `json:"audio_url"`
	ImageURL    *string  `json:"image_url"`
}

type cartLinePayload struct {
	ID          string  `json:"id"`
	ProductID   int64   `json:"product_id"`
	VariationID *int64  `json:"variation_id,omitempty"`
	Name        string  `json:"name"`
	LicenseType string  `json:"license_type"`
	Price       float64 `json:"price"`
	AudioURL    string  `json:"audio_url"`
	ImageURL    string  `json:"image_url,omitempty"`
	Timestamp   string  `json:"timestamp"`
}

type cartResponse struct {
	Items []cartLinePayload `json:"items"`
	Total float64           `json:"total"`
}

func (h *CartHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var req addCartItemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}

	input, err := req.toInput()
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	line, err := h.carts.AddLine(ctx, requestctx.CartKey(ctx), input)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, buildCartLinePayload(line))
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	cart, err := h.carts.GetCart(ctx, requestctx.CartKey(ctx))
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}

	items := make([]cartLinePayload, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, buildCartLinePayload(line))
	}

	writeJSONResponse(w, http.StatusOK, cartResponse{Items: items, Total: cart.Total})
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	itemID := strings.TrimSpace(chi.URLParam(r, "itemID"))
	if itemID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "item id is required", http.StatusBadRequest))
		return
	}

	if err := h.carts.RemoveLine(ctx, requestctx.CartKey(ctx), itemID); err != nil {
		h.writeCartError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}

func (h *CartHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	if err := h.carts.ClearCart(ctx, requestctx.CartKey(ctx)); err != nil {
		h.writeCartError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}

func (h *CartHandlers) writeCartError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCartLineNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("cart_item_not_found", "cart item not found", http.StatusNotFound))
	case errors.Is(err, services.ErrCartUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", err.Error(), http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected error", http.StatusInternalServerError))
	}
}

func (r addCartItemRequest) toInput() (domain.CartLineInput, error) {
	var missing []string
	if r.ProductID == nil || *r.ProductID <= 0 {
		missing = append(missing, "product_id")
	}
	if r.Name == nil {
		missing = append(missing, "name")
	}
	if r.LicenseType == nil {
		missing = append(missing, "license_type")
	}
	if r.Price == nil {
		missing = append(missing, "price")
	}
	if r.AudioURL == nil {
		missing = append(missing, "audio_url")
	}
	if len(missing) > 0 {
		return domain.CartLineInput{}, fmt.Errorf("missing or invalid fields: %s", strings.Join(missing, ", "))
	}

	input := domain.CartLineInput{
		ProductID:   *r.ProductID,
		VariationID: r.VariationID,
		Name:        *r.Name,
		LicenseType: *r.LicenseType,
		Price:       *r.Price,
		AudioURL:    *r.AudioURL,
	}
	if r.ImageURL != nil {
		input.ImageURL = *r.ImageURL
	}
	return input, nil
}

func buildCartLinePayload(line domain.CartLine) cartLinePayload {
	return cartLinePayload{
		ID:          line.ID,
		ProductID:   line.ProductID,
		VariationID: line.VariationID,
		Name:        line.Name,
		LicenseType: line.LicenseType,
		Price:       line.Price,
		AudioURL:    line.AudioURL,
		ImageURL:    line.ImageURL,
		Timestamp:   formatTimestamp(line.CreatedAt),
	}
}
