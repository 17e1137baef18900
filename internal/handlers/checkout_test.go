package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rarebeats/api/internal/services"
)

type stubCheckoutService struct {
	link    services.CheckoutLink
	err     error
	lastKey string
}

func (s *stubCheckoutService) CreateCheckoutLink(_ context.Context, cartKey string) (services.CheckoutLink, error) {
	s.lastKey = cartKey
	if s.err != nil {
		return services.CheckoutLink{}, s.err
	}
	return s.link, nil
}

func newCheckoutRouter(checkout services.CheckoutService) http.Handler {
	h := NewCheckoutHandlers(checkout)
	return NewRouter(WithCheckoutRoutes(h.Routes))
}

func TestCreateCheckoutResponseShape(t *testing.T) {
	checkout := &stubCheckoutService{link: services.CheckoutLink{
		URL:        "https://store.example.com/cart/?add-to-cart=3&variation_id=7 &add-to-cart=9",
		TotalItems: 2,
	}}
	router := newCheckoutRouter(checkout)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set(cartSessionHeader, "sess-1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if checkout.lastKey != "sess-1" {
		t.Errorf("expected session key forwarded, got %q", checkout.lastKey)
	}

	var body struct {
		CheckoutURL string `json:"checkout_url"`
		TotalItems  int    `json:"total_items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.CheckoutURL != checkout.link.URL {
		t.Errorf("unexpected url: %q", body.CheckoutURL)
	}
	if body.TotalItems != 2 {
		t.Errorf("unexpected total items: %d", body.TotalItems)
	}
}

func TestCreateCheckoutEmptyCart(t *testing.T) {
	router := newCheckoutRouter(&stubCheckoutService{err: services.ErrCartEmpty})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["error"] != "empty_cart" {
		t.Errorf("unexpected error code: %v", body["error"])
	}
}

func TestCreateCheckoutCartBackendFailure(t *testing.T) {
	router := newCheckoutRouter(&stubCheckoutService{err: services.ErrCartUnavailable})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
