package repositories

import (
	"context"
	"errors"

	"github.com/rarebeats/api/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation
// used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// CartLineRepository persists the lines of session-keyed carts. Every
// mutation is a single atomic insert or delete; no operation reads state to
// decide how to mutate.
type CartLineRepository interface {
	// Insert stores a fully populated line under the given cart key.
	Insert(ctx context.Context, cartKey string, line domain.CartLine) error
	// List returns the cart's lines in the order they were added.
	List(ctx context.Context, cartKey string) ([]domain.CartLine, error)
	// Delete removes one line; a not-found classified error is returned
	// when no line with the id exists.
	Delete(ctx context.Context, cartKey, lineID string) error
	// DeleteAll removes every line of the cart. Clearing an empty cart
	// succeeds silently.
	DeleteAll(ctx context.Context, cartKey string) error
}

// CatalogSource is the read-only view onto the external commerce platform's
// product catalog. It is a collaborator, never mutated from here.
type CatalogSource interface {
	ListProducts(ctx context.Context, page, perPage int) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
	ListVariations(ctx context.Context, productID int64) ([]domain.Variation, error)
}

// IsNotFound reports whether the error carries a not-found classification.
func IsNotFound(err error) bool {
	var repoErr RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.IsNotFound()
	}
	return false
}

// IsUnavailable reports whether the error carries an unavailable classification.
func IsUnavailable(err error) bool {
	var repoErr RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.IsUnavailable()
	}
	return false
}
