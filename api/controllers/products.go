package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boutiquemaison/storefront-backend/api/responses"
	"github.com/boutiquemaison/storefront-backend/api/validators"
	productsvc "github.com/boutiquemaison/storefront-backend/internal/products"
	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	pkgerrors "github.com/boutiquemaison/storefront-backend/pkg/errors"
	"github.com/boutiquemaison/storefront-backend/pkg/logger"
)

const homeListLimit = 8

type productResponse struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description,omitempty"`
	Price            decimal.Decimal  `json:"price"`
	PromoPrice       *decimal.Decimal `json:"promo_price,omitempty"`
	EffectivePrice   decimal.Decimal  `json:"effective_price"`
	OnPromotion      bool             `json:"on_promotion"`
	Savings          *decimal.Decimal `json:"savings,omitempty"`
	SavingsPercent   int              `json:"savings_percent,omitempty"`
	Stock            int              `json:"stock"`
	LowStock         bool             `json:"low_stock"`
	Available        bool             `json:"available"`
	Reference        *string          `json:"reference,omitempty"`
	Color            string           `json:"color,omitempty"`
	Material         string           `json:"material,omitempty"`
	Condition        string           `json:"condition"`
	CategoryID       uuid.UUID        `json:"category_id"`
	PrimaryImagePath string           `json:"primary_image_path,omitempty"`
	IsFeatured       bool             `json:"is_featured"`
	IsNew            bool             `json:"is_new"`
}

type productImageResponse struct {
	ImagePath string `json:"image_path"`
	AltText   string `json:"alt_text,omitempty"`
	Position  int    `json:"position"`
}

type brandResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Logo string    `json:"logo_path,omitempty"`
}

type productDetailResponse struct {
	productResponse
	Images  []productImageResponse `json:"images"`
	Brand   *brandResponse         `json:"brand,omitempty"`
	Related []productResponse      `json:"related"`
}

func toProductResponse(p models.Product) productResponse {
	resp := productResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Price:            p.Price,
		PromoPrice:       p.PromoPrice,
		EffectivePrice:   productsvc.EffectivePrice(&p),
		OnPromotion:      productsvc.IsOnPromotion(&p),
		Stock:            p.Stock,
		LowStock:         productsvc.IsLowStock(&p),
		Available:        productsvc.IsAvailable(&p),
		Reference:        p.Reference,
		Color:            p.Color,
		Material:         p.Material,
		Condition:        string(p.Condition),
		CategoryID:       p.CategoryID,
		PrimaryImagePath: p.PrimaryImagePath,
		IsFeatured:       p.IsFeatured,
		IsNew:            p.IsNew,
	}
	if resp.OnPromotion {
		savings := productsvc.Savings(&p)
		resp.Savings = &savings
		resp.SavingsPercent = productsvc.SavingsPercent(&p)
	}
	return resp
}

func toProductResponses(items []models.Product) []productResponse {
	out := make([]productResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toProductResponse(p))
	}
	return out
}

// ProductList serves the filtered, paginated catalog. All filters are
// optional query parameters combined with AND.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseFindInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Find(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"products":   toProductResponses(result.Items),
			"pagination": result.Page,
		})
	}
}

func parseFindInput(r *http.Request) (productsvc.FindInput, error) {
	input := productsvc.FindInput{
		Query:              validators.SanitizeString(r.URL.Query().Get("q"), 120),
		InStock:            boolQuery(r, "in_stock"),
		OnPromotion:        boolQuery(r, "on_promotion"),
		IncludeDescendants: boolQuery(r, "include_descendants"),
	}

	page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
	if err != nil {
		return input, err
	}
	input.Page = page

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category filter")
		}
		input.CategoryID = &id
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("brand")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid brand filter")
		}
		input.BrandID = &id
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("price_min")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price_min")
		}
		input.PriceMin = &value
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("price_max")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price_max")
		}
		input.PriceMax = &value
	}

	return input, nil
}

func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetDetail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := productDetailResponse{
			productResponse: toProductResponse(*detail.Product),
			Images:          make([]productImageResponse, 0, len(detail.Product.Images)),
			Related:         toProductResponses(detail.Related),
		}
		for _, img := range detail.Product.Images {
			resp.Images = append(resp.Images, productImageResponse{
				ImagePath: img.ImagePath,
				AltText:   img.AltText,
				Position:  img.Position,
			})
		}
		if detail.Product.Brand != nil {
			resp.Brand = &brandResponse{
				ID:   detail.Product.Brand.ID,
				Name: detail.Product.Brand.Name,
			}
			if detail.Product.Brand.LogoPath != nil {
				resp.Brand.Logo = *detail.Product.Brand.LogoPath
			}
		}

		responses.WriteSuccess(w, resp)
	}
}

func ProductsFeatured(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListFeatured(r.Context(), homeListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"products": toProductResponses(items)})
	}
}

func ProductsNew(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListNew(r.Context(), homeListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"products": toProductResponses(items)})
	}
}
