package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/boutiquemaison/storefront-backend/api/middleware"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestUserIDFromRequestMissing(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	if _, err := userIDFromRequest(req); err == nil {
		t.Fatal("expected error without customer context")
	}
}

func TestUserIDFromRequestPresent(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "5c8f5cb5-3282-4f67-a45b-4660c4d57e0f"))

	id, err := userIDFromRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != "5c8f5cb5-3282-4f67-a45b-4660c4d57e0f" {
		t.Fatalf("unexpected id %s", id)
	}
}
