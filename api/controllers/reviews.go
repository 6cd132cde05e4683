package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/boutiquemaison/storefront-backend/api/responses"
	"github.com/boutiquemaison/storefront-backend/api/validators"
	reviewsvc "github.com/boutiquemaison/storefront-backend/internal/reviews"
	"github.com/boutiquemaison/storefront-backend/pkg/logger"
)

const reviewListLimit = 20

type submitReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Title  string `json:"title" validate:"required,max=200"`
	Body   string `json:"body" validate:"omitempty,max=2000"`
}

type reviewResponse struct {
	ID        uuid.UUID `json:"id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ReviewSubmit(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload submitReviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.Submit(r.Context(), reviewsvc.SubmitInput{
			ProductID: productID,
			UserID:    userID,
			Rating:    payload.Rating,
			Title:     payload.Title,
			Body:      payload.Body,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, reviewResponse{
			ID:        review.ID,
			Rating:    review.Rating,
			Title:     review.Title,
			Body:      review.Body,
			CreatedAt: review.CreatedAt,
		})
	}
}

func ReviewList(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListApproved(r.Context(), productID, reviewListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]reviewResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, reviewResponse{
				ID:        row.ID,
				Rating:    row.Rating,
				Title:     row.Title,
				Body:      row.Body,
				CreatedAt: row.CreatedAt,
			})
		}
		responses.WriteSuccess(w, map[string]any{"reviews": out})
	}
}
