package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/boutiquemaison/storefront-backend/pkg/logger"
)

const customerIDHeader = "X-Customer-Id"

// CustomerContext lifts the customer id from the X-Customer-Id header into the
// request context. The gateway in front of the API fills the header after
// authenticating the customer; handlers that need an identity check the
// context and answer UNAUTHORIZED when it is empty.
func CustomerContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := r.Header.Get(customerIDHeader)
			if raw != "" {
				if id, err := uuid.Parse(raw); err == nil {
					ctx = WithUserID(ctx, id.String())
					if logg != nil {
						ctx = logg.WithUserID(ctx, id.String())
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
