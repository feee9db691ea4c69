package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/platefit/fulfillment/internal/models"
	"github.com/platefit/fulfillment/internal/service"
)

type contextKey string

const (
	authPayloadKey contextKey = "auth_payload"
)

// AuthMiddleware verifies the restaurant bearer token and passes the
// identity to the context
func AuthMiddleware(ts service.TokenService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			payload, err := ts.VerifyToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authPayloadKey, payload)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// getAuthPayload extracts the verified restaurant identity from context
func getAuthPayload(ctx context.Context) (*models.TokenPayload, bool) {
	payload, ok := ctx.Value(authPayloadKey).(*models.TokenPayload)
	return payload, ok && payload != nil
}
