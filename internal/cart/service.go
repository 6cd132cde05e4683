package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boutiquemaison/storefront-backend/internal/products"
	"github.com/boutiquemaison/storefront-backend/pkg/config"
	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	pkgerrors "github.com/boutiquemaison/storefront-backend/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the session cart operations. Concurrent requests for the
// same session are last-write-wins; stock checks are advisory and never
// reserve units.
type Service interface {
	Add(ctx context.Context, sessionID string, productID uuid.UUID, delta int) (*View, error)
	SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error)
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error)
	Clear(ctx context.Context, sessionID string) error
	Get(ctx context.Context, sessionID string) (*View, error)
}

// View is a cart together with its computed totals.
type View struct {
	Cart   *Cart  `json:"cart"`
	Totals Totals `json:"totals"`
}

type service struct {
	store  Store
	loader productLoader
	cfg    config.CartConfig
	now    func() time.Time
}

// NewService constructs a cart service instance.
func NewService(store Store, loader productLoader, cfg config.CartConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if loader == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		store:  store,
		loader: loader,
		cfg:    cfg,
		now:    time.Now,
	}, nil
}

func (s *service) Add(ctx context.Context, sessionID string, productID uuid.UUID, delta int) (*View, error) {
	if delta <= 0 {
		delta = 1
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !products.IsAvailable(product) {
		return nil, pkgerrors.New(pkgerrors.CodeUnavailable, "product is not available")
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	requested := delta
	idx := cart.lineIndex(productID)
	if idx >= 0 {
		requested = cart.Lines[idx].Quantity + delta
	}
	if requested > product.Stock {
		return nil, insufficientStock(product.Stock)
	}

	line := snapshotLine(product, requested)
	if idx >= 0 {
		cart.Lines[idx] = line
	} else {
		cart.Lines = append(cart.Lines, line)
	}

	if err := s.save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	idx := cart.lineIndex(productID)
	if qty <= 0 {
		if idx >= 0 {
			cart.removeLine(idx)
			if err := s.save(ctx, sessionID, cart); err != nil {
				return nil, err
			}
		}
		return s.view(cart), nil
	}

	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if qty > product.Stock {
		return nil, insufficientStock(product.Stock)
	}

	// quantity changes leave the snapshot untouched
	cart.Lines[idx].Quantity = qty
	cart.Lines[idx].StockCeiling = product.Stock

	if err := s.save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	if idx := cart.lineIndex(productID); idx >= 0 {
		cart.removeLine(idx)
		if err := s.save(ctx, sessionID, cart); err != nil {
			return nil, err
		}
	}
	return s.view(cart), nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	return nil
}

// Get returns the cart view after reconciling lines against the catalog:
// lines whose product vanished are dropped and the cart re-saved. The view
// itself never fails on catalog drift.
func (s *service) Get(ctx context.Context, sessionID string) (*View, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	kept := cart.Lines[:0]
	changed := false
	for _, line := range cart.Lines {
		if _, err := s.loader.FindByID(ctx, line.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				changed = true
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reconciling cart")
		}
		kept = append(kept, line)
	}
	cart.Lines = kept

	if changed {
		if err := s.save(ctx, sessionID, cart); err != nil {
			return nil, err
		}
	}
	return s.view(cart), nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.loader.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func (s *service) save(ctx context.Context, sessionID string, cart *Cart) error {
	cart.UpdatedAt = s.now()
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart")
	}
	return nil
}

func (s *service) view(cart *Cart) *View {
	return &View{
		Cart:   cart,
		Totals: ComputeTotals(cart, s.cfg.ShippingFlatFeeAmount(), s.cfg.FreeShippingThresholdAmount()),
	}
}

func insufficientStock(available int) error {
	err := pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock for the requested quantity")
	return err.WithDetails(map[string]any{"available": available})
}

func snapshotLine(product *models.Product, qty int) Line {
	reference := ""
	if product.Reference != nil {
		reference = *product.Reference
	}
	return Line{
		ProductID:    product.ID,
		Name:         product.Name,
		UnitPrice:    products.EffectivePrice(product),
		ImagePath:    product.PrimaryImagePath,
		Reference:    reference,
		Quantity:     qty,
		StockCeiling: product.Stock,
	}
}
