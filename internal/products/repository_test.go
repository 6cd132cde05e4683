package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	"github.com/boutiquemaison/storefront-backend/pkg/pagination"
)

func TestFindCombinesFiltersWithAnd(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	salon := mustCreateTestCategory(t, conn, "Salon", "salon")
	cuisine := mustCreateTestCategory(t, conn, "Cuisine", "cuisine")

	mustCreateTestProduct(t, conn, salon.ID, "Canapé en cuir", "899.00", nil)
	mustCreateTestProduct(t, conn, salon.ID, "Table basse chêne", "249.00", func(p *models.Product) {
		promo := decimal.RequireFromString("199.00")
		p.PromoPrice = &promo
	})
	mustCreateTestProduct(t, conn, cuisine.ID, "Table de cuisine", "180.00", nil)
	mustCreateTestProduct(t, conn, salon.ID, "Fauteuil épuisé", "120.00", func(p *models.Product) {
		p.Stock = 0
	})

	rows, total, err := repo.Find(ctx, Filters{
		CategoryIDs: []uuid.UUID{salon.ID},
		Query:       "table",
		InStock:     true,
		ActiveOnly:  true,
	}, pagination.Params{Page: 1, PageSize: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Table basse chêne", rows[0].Name)
}

func TestFindOnPromotionFilter(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	salon := mustCreateTestCategory(t, conn, "Salon", "salon")
	mustCreateTestProduct(t, conn, salon.ID, "Plein tarif", "100.00", nil)
	mustCreateTestProduct(t, conn, salon.ID, "Promo réelle", "100.00", func(p *models.Product) {
		promo := decimal.RequireFromString("75.00")
		p.PromoPrice = &promo
	})
	mustCreateTestProduct(t, conn, salon.ID, "Fausse promo", "100.00", func(p *models.Product) {
		promo := decimal.RequireFromString("100.00")
		p.PromoPrice = &promo
	})

	rows, total, err := repo.Find(ctx, Filters{OnPromotion: true, ActiveOnly: true}, pagination.Params{Page: 1, PageSize: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Promo réelle", rows[0].Name)
}

func TestFindPaginatesWithTotal(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	salon := mustCreateTestCategory(t, conn, "Salon", "salon")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 15; i++ {
		created := base.Add(time.Duration(i) * time.Minute)
		mustCreateTestProduct(t, conn, salon.ID, "Produit", "10.00", func(p *models.Product) {
			p.CreatedAt = created
		})
	}

	first, total, err := repo.Find(ctx, Filters{ActiveOnly: true}, pagination.Params{Page: 1, PageSize: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 15, total)
	assert.Len(t, first, 12)

	second, total, err := repo.Find(ctx, Filters{ActiveOnly: true}, pagination.Params{Page: 2, PageSize: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 15, total)
	assert.Len(t, second, 3)
}

func TestGetDetailExcludesInactive(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	salon := mustCreateTestCategory(t, conn, "Salon", "salon")
	hidden := mustCreateTestProduct(t, conn, salon.ID, "Retiré", "50.00", func(p *models.Product) {
		p.IsActive = false
	})

	_, err := repo.GetDetail(ctx, hidden.ID)
	require.Error(t, err)
}

func TestListRelatedExcludesSelfAndCaps(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	salon := mustCreateTestCategory(t, conn, "Salon", "salon")
	subject := mustCreateTestProduct(t, conn, salon.ID, "Sujet", "10.00", nil)
	for i := 0; i < 6; i++ {
		mustCreateTestProduct(t, conn, salon.ID, "Voisin", "10.00", nil)
	}

	related, err := repo.ListRelated(ctx, salon.ID, subject.ID, 4)
	require.NoError(t, err)
	assert.Len(t, related, 4)
	for _, p := range related {
		assert.NotEqual(t, subject.ID, p.ID)
	}
}

func TestDecrementStockRefusesOverdraw(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	salon := mustCreateTestCategory(t, conn, "Salon", "salon")
	product := mustCreateTestProduct(t, conn, salon.ID, "Lampe", "30.00", func(p *models.Product) {
		p.Stock = 2
	})

	ok, err := repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, product.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	reloaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Stock)
}

func TestCreateKeepsInactiveFlag(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	archive := mustCreateTestCategory(t, conn, "Archives", "archives")

	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Buffet retiré du catalogue",
		Price:      decimal.RequireFromString("60.00"),
		Stock:      2,
		CategoryID: archive.ID,
		IsActive:   false,
	}
	_, err := repo.Create(ctx, product)
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
	assert.False(t, reloaded.IsActive)
}
