package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/boutiquemaison/storefront-backend/internal/cart"
	"github.com/boutiquemaison/storefront-backend/internal/products"
	"github.com/boutiquemaison/storefront-backend/pkg/db"
	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	"github.com/boutiquemaison/storefront-backend/pkg/enums"
	pkgerrors "github.com/boutiquemaison/storefront-backend/pkg/errors"
	"github.com/boutiquemaison/storefront-backend/pkg/pagination"
)

type cartReader interface {
	Get(ctx context.Context, sessionID string) (*cart.View, error)
	Clear(ctx context.Context, sessionID string) error
}

// Service exposes checkout and order history operations.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, page int) (*ListResult, error)
}

// PlaceOrderInput carries everything checkout needs from the request.
type PlaceOrderInput struct {
	SessionID         string
	UserID            uuid.UUID
	BillingAddressID  uuid.UUID
	ShippingAddressID uuid.UUID
	PromoCode         string
	Notes             string
}

// ListResult is one page of order history.
type ListResult struct {
	Items []models.Order
	Page  pagination.Page
}

type service struct {
	repo        *Repository
	productRepo *products.Repository
	dbClient    *db.Client
	carts       cartReader
	numbers     NumberSource
	pageSize    int
	now         func() time.Time
}

// NewService constructs an order service instance.
func NewService(repo *Repository, productRepo *products.Repository, dbClient *db.Client, carts cartReader, numbers NumberSource, pageSize int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if numbers == nil {
		return nil, fmt.Errorf("number source required")
	}
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &service{
		repo:        repo,
		productRepo: productRepo,
		dbClient:    dbClient,
		carts:       carts,
		numbers:     numbers,
		pageSize:    pageSize,
		now:         time.Now,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	view, err := s.carts.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if view.Cart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	billing, err := s.loadOwnedAddress(ctx, input.UserID, input.BillingAddressID)
	if err != nil {
		return nil, err
	}
	if !billing.Type.CoversBilling() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address cannot be used for billing")
	}
	shipping, err := s.loadOwnedAddress(ctx, input.UserID, input.ShippingAddressID)
	if err != nil {
		return nil, err
	}
	if !shipping.Type.CoversShipping() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address cannot be used for shipping")
	}

	subtotal := view.Totals.Subtotal
	now := s.now()

	var promo *models.PromoCode
	discount := decimal.Zero
	if code := strings.TrimSpace(input.PromoCode); code != "" {
		promo, err = s.repo.FindPromoByCode(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is not valid")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading promo code")
		}
		if !promo.IsValidAt(now) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is not valid")
		}
		if subtotal.LessThan(promo.MinimumAmount) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order subtotal is below the promo code minimum")
		}
		discount = computeDiscount(promo, subtotal)
	}

	total := subtotal.Add(view.Totals.Shipping).Sub(discount)

	order := &models.Order{
		ID:                uuid.New(),
		UserID:            input.UserID,
		Status:            enums.OrderStatusPending,
		PaymentStatus:     enums.PaymentStatusPending,
		Subtotal:          subtotal,
		ShippingFee:       view.Totals.Shipping,
		Discount:          discount,
		Total:             total,
		BillingAddressID:  billing.ID,
		ShippingAddressID: shipping.ID,
		CustomerNotes:     input.Notes,
	}
	if promo != nil {
		order.PromoCode = &promo.Code
	}
	for _, line := range view.Cart.Lines {
		order.Lines = append(order.Lines, models.OrderLine{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	number, err := s.numbers.Next(ctx, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generating order number")
	}
	order.Number = number

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txProducts := s.productRepo.WithTx(tx)

		for _, line := range order.Lines {
			ok, err := txProducts.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return stockShortfall(ctx, txProducts, line.ProductID)
			}
		}

		if promo != nil {
			ok, err := txRepo.IncrementPromoUse(ctx, promo.ID)
			if err != nil {
				return err
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, "promo code is not valid")
			}
		}

		_, err := txRepo.CreateOrder(ctx, order)
		return err
	})
	if err != nil {
		var appErr *pkgerrors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "placing order")
	}

	// The cart is cleared only after the commit so a failed write never loses
	// it. A failed clear leaves a stale cart behind, which reconciliation
	// tolerates.
	_ = s.carts.Clear(ctx, input.SessionID)

	return order, nil
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, page int) (*ListResult, error) {
	params := pagination.Params{Page: page, PageSize: s.pageSize}.Normalize()
	rows, total, err := s.repo.ListForUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return &ListResult{Items: rows, Page: pagination.NewPage(params, total)}, nil
}

func (s *service) loadOwnedAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	address, err := s.repo.FindAddress(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading address")
	}
	if address.UserID != userID || !address.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return address, nil
}

// computeDiscount applies the promo against the subtotal: a percentage of it,
// or a fixed amount capped at the subtotal.
func computeDiscount(promo *models.PromoCode, subtotal decimal.Decimal) decimal.Decimal {
	switch promo.Kind {
	case enums.PromoKindPercentage:
		return subtotal.Mul(promo.Value).Div(decimal.New(100, 0)).Round(2)
	case enums.PromoKindFixed:
		if promo.Value.GreaterThan(subtotal) {
			return subtotal
		}
		return promo.Value
	default:
		return decimal.Zero
	}
}

func stockShortfall(ctx context.Context, repo *products.Repository, productID uuid.UUID) error {
	available := 0
	if product, err := repo.FindByID(ctx, productID); err == nil {
		available = product.Stock
	}
	err := pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock to place the order")
	return err.WithDetails(map[string]any{"available": available, "product_id": productID})
}
