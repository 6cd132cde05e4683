package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/boutiquemaison/storefront-backend/pkg/config"
	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	pkgerrors "github.com/boutiquemaison/storefront-backend/pkg/errors"
)

type memStore struct {
	carts map[string]*Cart
}

func newMemStore() *memStore {
	return &memStore{carts: map[string]*Cart{}}
}

func (m *memStore) Load(_ context.Context, sessionID string) (*Cart, error) {
	if cart, ok := m.carts[sessionID]; ok {
		copied := *cart
		copied.Lines = append([]Line(nil), cart.Lines...)
		return &copied, nil
	}
	return &Cart{}, nil
}

func (m *memStore) Save(_ context.Context, sessionID string, cart *Cart) error {
	copied := *cart
	copied.Lines = append([]Line(nil), cart.Lines...)
	m.carts[sessionID] = &copied
	return nil
}

func (m *memStore) Delete(_ context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

type stubProducts struct {
	byID map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		copied := *product
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testCartConfig() config.CartConfig {
	return config.CartConfig{
		ShippingFlatFee:       "15.00",
		FreeShippingThreshold: "100.00",
	}
}

func newTestCart(t *testing.T) (Service, *memStore, *stubProducts) {
	t.Helper()
	store := newMemStore()
	loader := &stubProducts{byID: map[uuid.UUID]*models.Product{}}
	svc, err := NewService(store, loader, testCartConfig())
	require.NoError(t, err)
	return svc, store, loader
}

func seedProduct(loader *stubProducts, price string, stock int) *models.Product {
	product := &models.Product{
		ID:       uuid.New(),
		Name:     "Produit",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	loader.byID[product.ID] = product
	return product
}

func TestAddCreatesSnapshotLine(t *testing.T) {
	svc, _, loader := newTestCart(t)
	product := seedProduct(loader, "40.00", 5)
	promo := decimal.RequireFromString("35.00")
	product.PromoPrice = &promo
	ref := "REFX"
	product.Reference = &ref

	view, err := svc.Add(context.Background(), "sess", product.ID, 2)
	require.NoError(t, err)
	require.Len(t, view.Cart.Lines, 1)

	line := view.Cart.Lines[0]
	assert.Equal(t, 2, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(promo))
	assert.Equal(t, "REFX", line.Reference)
	assert.Equal(t, 5, line.StockCeiling)
}

func TestAddAccumulatesQuantity(t *testing.T) {
	svc, _, loader := newTestCart(t)
	product := seedProduct(loader, "10.00", 5)

	_, err := svc.Add(context.Background(), "sess", product.ID, 2)
	require.NoError(t, err)
	view, err := svc.Add(context.Background(), "sess", product.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Cart.Lines[0].Quantity)
}

func TestAddDefaultsDeltaToOne(t *testing.T) {
	svc, _, loader := newTestCart(t)
	product := seedProduct(loader, "10.00", 5)

	view, err := svc.Add(context.Background(), "sess", product.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Cart.Lines[0].Quantity)
}

func TestAddInsufficientStockLeavesCartUnchanged(t *testing.T) {
	svc, store, loader := newTestCart(t)
	product := seedProduct(loader, "10.00", 3)

	_, err := svc.Add(context.Background(), "sess", product.ID, 2)
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), "sess", product.ID, 2)
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, appErr.Code())
	details, ok := appErr.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3, details["available"])

	saved, err := store.Load(context.Background(), "sess")
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Lines[0].Quantity)
}

func TestAddRejectsMissingAndUnavailable(t *testing.T) {
	svc, _, loader := newTestCart(t)

	_, err := svc.Add(context.Background(), "sess", uuid.New(), 1)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	inactive := seedProduct(loader, "10.00", 5)
	inactive.IsActive = false
	_, err = svc.Add(context.Background(), "sess", inactive.ID, 1)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeUnavailable, appErr.Code())

	soldOut := seedProduct(loader, "10.00", 0)
	_, err = svc.Add(context.Background(), "sess", soldOut.ID, 1)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeUnavailable, appErr.Code())
}

func TestSetQuantityReplacesWithoutTouchingSnapshot(t *testing.T) {
	svc, _, loader := newTestCart(t)
	product := seedProduct(loader, "50.00", 10)

	_, err := svc.Add(context.Background(), "sess", product.ID, 1)
	require.NoError(t, err)

	// price changes after the line was created
	product.Price = decimal.RequireFromString("60.00")

	view, err := svc.SetQuantity(context.Background(), "sess", product.ID, 4)
	require.NoError(t, err)
	line := view.Cart.Lines[0]
	assert.Equal(t, 4, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("50.00")))
}

func TestSetQuantityZeroRemovesIdempotently(t *testing.T) {
	svc, _, loader := newTestCart(t)
	product := seedProduct(loader, "10.00", 5)

	_, err := svc.Add(context.Background(), "sess", product.ID, 1)
	require.NoError(t, err)

	view, err := svc.SetQuantity(context.Background(), "sess", product.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Lines)

	// removing again is not an error
	view, err = svc.SetQuantity(context.Background(), "sess", product.ID, -3)
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Lines)
}

func TestSetQuantityChecksStock(t *testing.T) {
	svc, _, loader := newTestCart(t)
	product := seedProduct(loader, "10.00", 3)

	_, err := svc.Add(context.Background(), "sess", product.ID, 1)
	require.NoError(t, err)

	_, err = svc.SetQuantity(context.Background(), "sess", product.ID, 4)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, appErr.Code())
}

func TestRemoveIsIdempotent(t *testing.T) {
	svc, _, loader := newTestCart(t)
	product := seedProduct(loader, "10.00", 5)

	_, err := svc.Add(context.Background(), "sess", product.ID, 1)
	require.NoError(t, err)

	view, err := svc.Remove(context.Background(), "sess", product.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Lines)

	view, err = svc.Remove(context.Background(), "sess", product.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Lines)
}

func TestGetReconcilesVanishedProducts(t *testing.T) {
	svc, store, loader := newTestCart(t)
	keep := seedProduct(loader, "10.00", 5)
	gone := seedProduct(loader, "20.00", 5)

	_, err := svc.Add(context.Background(), "sess", keep.ID, 1)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "sess", gone.ID, 1)
	require.NoError(t, err)

	delete(loader.byID, gone.ID)

	view, err := svc.Get(context.Background(), "sess")
	require.NoError(t, err)
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, keep.ID, view.Cart.Lines[0].ProductID)

	// the reconciled cart was persisted
	saved, err := store.Load(context.Background(), "sess")
	require.NoError(t, err)
	require.Len(t, saved.Lines, 1)
}

func TestClearDeletesCart(t *testing.T) {
	svc, _, loader := newTestCart(t)
	product := seedProduct(loader, "10.00", 5)

	_, err := svc.Add(context.Background(), "sess", product.ID, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(context.Background(), "sess"))

	view, err := svc.Get(context.Background(), "sess")
	require.NoError(t, err)
	assert.True(t, view.Cart.IsEmpty())
}
