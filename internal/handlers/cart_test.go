package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rarebeats/api/internal/domain"
	"github.com/rarebeats/api/internal/services"
)

type stubCartService struct {
	line        domain.CartLine
	addErr      error
	lastAddKey  string
	lastInput   domain.CartLineInput
	cart        domain.Cart
	getErr      error
	lastGetKey  string
	removeErr   error
	lastLineID  string
	clearErr    error
	lastClrKey  string
	removeCalls int
}

func (s *stubCartService) AddLine(_ context.Context, cartKey string, input domain.CartLineInput) (domain.CartLine, error) {
	s.lastAddKey = cartKey
	s.lastInput = input
	if s.addErr != nil {
		return domain.CartLine{}, s.addErr
	}
	return s.line, nil
}

func (s *stubCartService) GetCart(_ context.Context, cartKey string) (domain.Cart, error) {
	s.lastGetKey = cartKey
	if s.getErr != nil {
		return domain.Cart{}, s.getErr
	}
	return s.cart, nil
}

func (s *stubCartService) RemoveLine(_ context.Context, cartKey, lineID string) error {
	s.lastLineID = lineID
	s.removeCalls++
	return s.removeErr
}

func (s *stubCartService) ClearCart(_ context.Context, cartKey string) error {
	s.lastClrKey = cartKey
	return s.clearErr
}

func newCartRouter(carts services.CartService) http.Handler {
	h := NewCartHandlers(carts)
	return NewRouter(WithCartRoutes(h.Routes))
}

func TestAddCartItemCreated(t *testing.T) {
	carts := &stubCartService{line: domain.CartLine{
		ID:          "01TESTULID",
		ProductID:   7,
		Name:        "Midnight Drive",
		LicenseType: "Premium",
		Price:       49.99,
		AudioURL:    "https://cdn.example.com/preview.mp3",
		CreatedAt:   time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}}
	router := newCartRouter(carts)

	payload := `{"product_id":7,"name":"Midnight Drive","license_type":"Premium","price":49.99,"audio_url":"https://cdn.example.com/preview.mp3"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(payload))
	req.Header.Set(cartSessionHeader, "sess-1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if carts.lastAddKey != "sess-1" {
		t.Errorf("expected session key forwarded, got %q", carts.lastAddKey)
	}
	if carts.lastInput.ProductID != 7 || carts.lastInput.LicenseType != "Premium" {
		t.Errorf("unexpected input: %+v", carts.lastInput)
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["id"] != "01TESTULID" {
		t.Errorf("unexpected id: %v", body["id"])
	}
	if body["timestamp"] != "2026-03-14T09:30:00Z" {
		t.Errorf("unexpected timestamp: %v", body["timestamp"])
	}
	if _, present := body["variation_id"]; present {
		t.Error("expected variation_id omitted when nil")
	}
}

func TestAddCartItemMissingFields(t *testing.T) {
	router := newCartRouter(&stubCartService{})

	payload := `{"product_id":7,"price":49.99}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["error"] != "invalid_request" {
		t.Errorf("unexpected error code: %v", body["error"])
	}
	message, _ := body["message"].(string)
	for _, field := range []string{"name", "license_type", "audio_url"} {
		if !strings.Contains(message, field) {
			t.Errorf("expected %s reported in %q", field, message)
		}
	}
}

func TestAddCartItemAcceptsEmptyStringFields(t *testing.T) {
	carts := &stubCartService{line: domain.CartLine{ID: "01TESTULID", ProductID: 7}}
	router := newCartRouter(carts)

	payload := `{"product_id":7,"name":"","license_type":"","price":0,"audio_url":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if carts.lastInput.Name != "" || carts.lastInput.LicenseType != "" {
		t.Errorf("expected empty strings forwarded verbatim, got %+v", carts.lastInput)
	}
}

func TestAddCartItemRejectsInvalidJSON(t *testing.T) {
	router := newCartRouter(&stubCartService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader("{nope"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGetCartResponseShape(t *testing.T) {
	variation := int64(71)
	carts := &stubCartService{cart: domain.Cart{
		Key: "default",
		Lines: []domain.CartLine{
			{ID: "a", ProductID: 3, VariationID: &variation, Name: "One", LicenseType: "Basic", Price: 29.99, CreatedAt: time.Now()},
			{ID: "b", ProductID: 9, Name: "Two", LicenseType: "Premium", Price: 49.99, CreatedAt: time.Now()},
		},
		Total: 79.98,
	}}
	router := newCartRouter(carts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if carts.lastGetKey != "" {
		t.Errorf("expected empty key when header absent, got %q", carts.lastGetKey)
	}

	var body struct {
		Items []map[string]any `json:"items"`
		Total float64          `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(body.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(body.Items))
	}
	if body.Total != 79.98 {
		t.Errorf("unexpected total: %f", body.Total)
	}
	if body.Items[0]["variation_id"] != float64(71) {
		t.Errorf("unexpected variation id: %v", body.Items[0]["variation_id"])
	}
}

func TestRemoveCartItemNotFound(t *testing.T) {
	carts := &stubCartService{removeErr: services.ErrCartLineNotFound}
	router := newCartRouter(carts)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/missing", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["error"] != "cart_item_not_found" {
		t.Errorf("unexpected error code: %v", body["error"])
	}
}

func TestRemoveCartItemSuccess(t *testing.T) {
	carts := &stubCartService{}
	router := newCartRouter(carts)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/01TESTULID", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if carts.lastLineID != "01TESTULID" {
		t.Errorf("unexpected line id: %s", carts.lastLineID)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["message"] != "Item removed from cart" {
		t.Errorf("unexpected message: %q", body["message"])
	}
}

func TestClearCart(t *testing.T) {
	carts := &stubCartService{}
	router := newCartRouter(carts)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req.Header.Set(cartSessionHeader, "sess-9")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if carts.lastClrKey != "sess-9" {
		t.Errorf("expected session key forwarded, got %q", carts.lastClrKey)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["message"] != "Cart cleared" {
		t.Errorf("unexpected message: %q", body["message"])
	}
}

func TestCartBackendFailureEnvelope(t *testing.T) {
	carts := &stubCartService{getErr: fmt.Errorf("%w: %v", services.ErrCartUnavailable, errors.New("firestore deadline exceeded"))}
	router := newCartRouter(carts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	message, _ := body["message"].(string)
	if !strings.Contains(message, "firestore deadline exceeded") {
		t.Errorf("message should carry the backend cause, got %q", message)
	}
}
