package handlers

import (
	"net/http"

	"github.com/rarebeats/api/internal/platform/requestctx"
)

// cartSessionHeader identifies the shopper's cart. Anonymous storefront
// clients omit it and share the "default" cart key.
const cartSessionHeader = "X-Cart-Session"

// CartSessionMiddleware resolves the cart key from the session header and
// stores it on the request context for the cart and checkout handlers.
func CartSessionMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestctx.WithCartKey(r.Context(), r.Header.Get(cartSessionHeader))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
