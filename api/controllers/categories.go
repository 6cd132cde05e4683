package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/boutiquemaison/storefront-backend/api/responses"
	categorysvc "github.com/boutiquemaison/storefront-backend/internal/categories"
	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	"github.com/boutiquemaison/storefront-backend/pkg/logger"
)

type categoryResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description,omitempty"`
	Icon         string     `json:"icon,omitempty"`
	ImagePath    *string    `json:"image_path,omitempty"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty"`
	DisplayOrder int        `json:"display_order"`
	IsActive     bool       `json:"is_active"`
}

func toCategoryResponse(c models.Category) categoryResponse {
	return categoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		Icon:         c.Icon,
		ImagePath:    c.ImagePath,
		ParentID:     c.ParentID,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
	}
}

func toCategoryResponses(categories []models.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

// CategoryTree serves the nested navigation payload. ?active=1 restricts the
// tree to active nodes, which is what the storefront menu uses.
func CategoryTree(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tree, err := svc.Tree(r.Context(), boolQuery(r, "active"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": tree})
	}
}

func CategoryChildren(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		children, err := svc.ListChildren(r.Context(), &id, boolQuery(r, "active"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": toCategoryResponses(children)})
	}
}

func CategoryBreadcrumb(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		path, err := svc.BreadcrumbPath(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"breadcrumb": toCategoryResponses(path)})
	}
}
