package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rarebeats/api/internal/domain"
)

type notFoundErr struct{}

func (notFoundErr) Error() string       { return "not found" }
func (notFoundErr) IsNotFound() bool    { return true }
func (notFoundErr) IsConflict() bool    { return false }
func (notFoundErr) IsUnavailable() bool { return false }

type stubCartLineRepo struct {
	inserted   []domain.CartLine
	insertKey  string
	insertErr  error
	lines      []domain.CartLine
	listErr    error
	deleteErr  error
	deletedID  string
	deleteKey  string
	clearedKey string
	clearErr   error
}

func (s *stubCartLineRepo) Insert(_ context.Context, cartKey string, line domain.CartLine) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.insertKey = cartKey
	s.inserted = append(s.inserted, line)
	return nil
}

func (s *stubCartLineRepo) List(_ context.Context, cartKey string) ([]domain.CartLine, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.lines, nil
}

func (s *stubCartLineRepo) Delete(_ context.Context, cartKey, lineID string) error {
	s.deleteKey = cartKey
	s.deletedID = lineID
	return s.deleteErr
}

func (s *stubCartLineRepo) DeleteAll(_ context.Context, cartKey string) error {
	s.clearedKey = cartKey
	return s.clearErr
}

func newCart(t *testing.T, repo *stubCartLineRepo) CartService {
	t.Helper()
	svc, err := NewCartService(CartServiceDeps{
		Lines:       repo,
		Clock:       func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) },
		IDGenerator: func() string { return "01TESTULID" },
	})
	if err != nil {
		t.Fatalf("NewCartService returned error: %v", err)
	}
	return svc
}

func TestNewCartServiceRequiresRepository(t *testing.T) {
	if _, err := NewCartService(CartServiceDeps{}); err == nil {
		t.Fatal("expected error for missing repository")
	}
}

func TestAddLineFreezesSnapshot(t *testing.T) {
	repo := &stubCartLineRepo{}
	svc := newCart(t, repo)

	variation := int64(71)
	line, err := svc.AddLine(context.Background(), "sess-1", domain.CartLineInput{
		ProductID:   7,
		VariationID: &variation,
		Name:        "Midnight Drive",
		LicenseType: "Premium",
		Price:       49.99,
		AudioURL:    "https://cdn.example.com/preview.mp3",
		ImageURL:    "https://cdn.example.com/cover.jpg",
	})
	if err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}

	if line.ID != "01TESTULID" {
		t.Errorf("unexpected line id: %s", line.ID)
	}
	if !line.CreatedAt.Equal(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("unexpected created at: %s", line.CreatedAt)
	}
	if repo.insertKey != "sess-1" {
		t.Errorf("unexpected cart key: %s", repo.insertKey)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].Price != 49.99 {
		t.Errorf("unexpected persisted line: %+v", repo.inserted)
	}
}

func TestCartKeyFallsBackToDefault(t *testing.T) {
	repo := &stubCartLineRepo{}
	svc := newCart(t, repo)

	if _, err := svc.AddLine(context.Background(), "  ", domain.CartLineInput{ProductID: 1, Name: "Track", LicenseType: "Basic", Price: 9.99}); err != nil {
		t.Fatalf("AddLine returned error: %v", err)
	}
	if repo.insertKey != "default" {
		t.Errorf("expected default cart key, got %s", repo.insertKey)
	}

	cart, err := svc.GetCart(context.Background(), "")
	if err != nil {
		t.Fatalf("GetCart returned error: %v", err)
	}
	if cart.Key != "default" {
		t.Errorf("expected default cart key, got %s", cart.Key)
	}
}

func TestGetCartDerivesTotal(t *testing.T) {
	repo := &stubCartLineRepo{lines: []domain.CartLine{
		{ID: "a", Price: 29.99},
		{ID: "b", Price: 49.99},
	}}
	svc := newCart(t, repo)

	cart, err := svc.GetCart(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("GetCart returned error: %v", err)
	}
	if len(cart.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Lines))
	}
	if diff := cart.Total - 79.98; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("unexpected total: %f", cart.Total)
	}
}

func TestRemoveLineMapsNotFound(t *testing.T) {
	repo := &stubCartLineRepo{deleteErr: notFoundErr{}}
	svc := newCart(t, repo)

	err := svc.RemoveLine(context.Background(), "sess-1", "missing")
	if !errors.Is(err, ErrCartLineNotFound) {
		t.Fatalf("expected ErrCartLineNotFound, got %v", err)
	}
}

func TestRemoveLineWrapsBackendFailures(t *testing.T) {
	repo := &stubCartLineRepo{deleteErr: errors.New("firestore down")}
	svc := newCart(t, repo)

	err := svc.RemoveLine(context.Background(), "sess-1", "a")
	if !errors.Is(err, ErrCartUnavailable) {
		t.Fatalf("expected ErrCartUnavailable, got %v", err)
	}
}

func TestClearCartTargetsNormalizedKey(t *testing.T) {
	repo := &stubCartLineRepo{}
	svc := newCart(t, repo)

	if err := svc.ClearCart(context.Background(), "sess-9"); err != nil {
		t.Fatalf("ClearCart returned error: %v", err)
	}
	if repo.clearedKey != "sess-9" {
		t.Errorf("unexpected cart key: %s", repo.clearedKey)
	}
}
