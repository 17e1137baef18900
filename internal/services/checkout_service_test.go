package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rarebeats/api/internal/domain"
)

type stubCartReader struct {
	cart    domain.Cart
	err     error
	lastKey string
}

func (s *stubCartReader) GetCart(_ context.Context, cartKey string) (domain.Cart, error) {
	s.lastKey = cartKey
	if s.err != nil {
		return domain.Cart{}, s.err
	}
	return s.cart, nil
}

func newCheckout(t *testing.T, reader *stubCartReader, baseURL string) CheckoutService {
	t.Helper()
	svc, err := NewCheckoutService(CheckoutServiceDeps{Cart: reader, BaseURL: baseURL})
	if err != nil {
		t.Fatalf("NewCheckoutService returned error: %v", err)
	}
	return svc
}

func TestNewCheckoutServiceValidatesDeps(t *testing.T) {
	if _, err := NewCheckoutService(CheckoutServiceDeps{BaseURL: "https://store.example.com"}); err == nil {
		t.Error("expected error for missing cart service")
	}
	if _, err := NewCheckoutService(CheckoutServiceDeps{Cart: &stubCartReader{}}); err == nil {
		t.Error("expected error for missing base url")
	}
}

func TestCreateCheckoutLinkBuildsRedirect(t *testing.T) {
	variation := int64(7)
	reader := &stubCartReader{cart: domain.Cart{
		Key: "sess-1",
		Lines: []domain.CartLine{
			{ID: "a", ProductID: 3, VariationID: &variation},
			{ID: "b", ProductID: 9},
		},
	}}
	svc := newCheckout(t, reader, "https://store.example.com/")

	link, err := svc.CreateCheckoutLink(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("CreateCheckoutLink returned error: %v", err)
	}

	want := "https://store.example.com/cart/?add-to-cart=3&variation_id=7 &add-to-cart=9"
	if link.URL != want {
		t.Errorf("unexpected url:\n got %q\nwant %q", link.URL, want)
	}
	if link.TotalItems != 2 {
		t.Errorf("unexpected total items: %d", link.TotalItems)
	}
	if reader.lastKey != "sess-1" {
		t.Errorf("unexpected cart key: %s", reader.lastKey)
	}
}

func TestCreateCheckoutLinkSkipsZeroVariation(t *testing.T) {
	zero := int64(0)
	reader := &stubCartReader{cart: domain.Cart{
		Key: "sess-1",
		Lines: []domain.CartLine{
			{ID: "a", ProductID: 3, VariationID: &zero},
		},
	}}
	svc := newCheckout(t, reader, "https://store.example.com")

	link, err := svc.CreateCheckoutLink(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("CreateCheckoutLink returned error: %v", err)
	}

	want := "https://store.example.com/cart/?add-to-cart=3"
	if link.URL != want {
		t.Errorf("unexpected url:\n got %q\nwant %q", link.URL, want)
	}
}

func TestCreateCheckoutLinkRejectsEmptyCart(t *testing.T) {
	reader := &stubCartReader{cart: domain.Cart{Key: "sess-1"}}
	svc := newCheckout(t, reader, "https://store.example.com")

	if _, err := svc.CreateCheckoutLink(context.Background(), "sess-1"); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestCreateCheckoutLinkPropagatesCartErrors(t *testing.T) {
	reader := &stubCartReader{err: ErrCartUnavailable}
	svc := newCheckout(t, reader, "https://store.example.com")

	if _, err := svc.CreateCheckoutLink(context.Background(), "sess-1"); !errors.Is(err, ErrCartUnavailable) {
		t.Fatalf("expected ErrCartUnavailable, got %v", err)
	}
}
