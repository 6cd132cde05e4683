package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boutiquemaison/storefront-backend/api/responses"
	"github.com/boutiquemaison/storefront-backend/api/validators"
	ordersvc "github.com/boutiquemaison/storefront-backend/internal/orders"
	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	"github.com/boutiquemaison/storefront-backend/pkg/logger"
)

type checkoutRequest struct {
	BillingAddressID  uuid.UUID `json:"billing_address_id" validate:"required"`
	ShippingAddressID uuid.UUID `json:"shipping_address_id" validate:"required"`
	PromoCode         string    `json:"promo_code" validate:"omitempty,max=50"`
	Notes             string    `json:"notes" validate:"omitempty,max=1000"`
}

type orderLineResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type orderResponse struct {
	ID            uuid.UUID           `json:"id"`
	Number        string              `json:"number"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	ShippingFee   decimal.Decimal     `json:"shipping_fee"`
	Discount      decimal.Decimal     `json:"discount"`
	Total         decimal.Decimal     `json:"total"`
	PromoCode     *string             `json:"promo_code,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	Lines         []orderLineResponse `json:"lines"`
	CreatedAt     time.Time           `json:"created_at"`
}

func toOrderResponse(o *models.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		Number:        o.Number,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		Subtotal:      o.Subtotal,
		ShippingFee:   o.ShippingFee,
		Discount:      o.Discount,
		Total:         o.Total,
		PromoCode:     o.PromoCode,
		Notes:         o.CustomerNotes,
		Lines:         make([]orderLineResponse, 0, len(o.Lines)),
		CreatedAt:     o.CreatedAt,
	}
	for _, line := range o.Lines {
		resp.Lines = append(resp.Lines, orderLineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal(),
		})
	}
	return resp
}

// Checkout turns the session cart into an order for the authenticated
// customer.
func Checkout(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), ordersvc.PlaceOrderInput{
			SessionID:         sessionID,
			UserID:            userID,
			BillingAddressID:  payload.BillingAddressID,
			ShippingAddressID: payload.ShippingAddressID,
			PromoCode:         strings.TrimSpace(payload.PromoCode),
			Notes:             strings.TrimSpace(payload.Notes),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toOrderResponse(order))
	}
}

func OrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListOrders(r.Context(), userID, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders := make([]orderResponse, 0, len(result.Items))
		for i := range result.Items {
			orders = append(orders, toOrderResponse(&result.Items[i]))
		}
		responses.WriteSuccess(w, map[string]any{
			"orders":     orders,
			"pagination": result.Page,
		})
	}
}

func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuidParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderResponse(order))
	}
}
