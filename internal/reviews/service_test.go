package reviews

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/boutiquemaison/storefront-backend/internal/products"
	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	pkgerrors "github.com/boutiquemaison/storefront-backend/pkg/errors"
)

func setupReviewsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price TEXT NOT NULL,
  promo_price TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  low_stock_threshold INTEGER NOT NULL DEFAULT 5,
  reference TEXT UNIQUE,
  sku TEXT UNIQUE,
  barcode TEXT NOT NULL DEFAULT '',
  weight_kg TEXT,
  dimensions TEXT NOT NULL DEFAULT '',
  color TEXT NOT NULL DEFAULT '',
  material TEXT NOT NULL DEFAULT '',
  condition TEXT NOT NULL DEFAULT 'new',
  category_id TEXT NOT NULL,
  brand_id TEXT,
  supplier_id TEXT,
  primary_image_path TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  is_new INTEGER NOT NULL DEFAULT 0,
  meta_title TEXT NOT NULL DEFAULT '',
  meta_description TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  title TEXT NOT NULL,
  body TEXT NOT NULL DEFAULT '',
  is_approved INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  UNIQUE (product_id, user_id)
);`}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newReviewsFixture(t *testing.T) (Service, *gorm.DB, *models.Product) {
	t.Helper()
	conn := setupReviewsTestDB(t)
	svc, err := NewService(NewRepository(conn), products.NewRepository(conn))
	require.NoError(t, err)

	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Table basse",
		Price:      decimal.RequireFromString("120.00"),
		CategoryID: uuid.New(),
		IsActive:   true,
	}
	require.NoError(t, conn.Create(product).Error)
	return svc, conn, product
}

func TestSubmitStoresUnapprovedReview(t *testing.T) {
	svc, conn, product := newReviewsFixture(t)

	review, err := svc.Submit(context.Background(), SubmitInput{
		ProductID: product.ID,
		UserID:    uuid.New(),
		Rating:    4,
		Title:     "Très satisfaite",
	})
	require.NoError(t, err)
	assert.False(t, review.IsApproved)

	var count int64
	require.NoError(t, conn.Model(&models.Review{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitRejectsOutOfRangeRating(t *testing.T) {
	svc, _, product := newReviewsFixture(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(context.Background(), SubmitInput{
			ProductID: product.ID,
			UserID:    uuid.New(),
			Rating:    rating,
			Title:     "Hors limites",
		})
		var appErr *pkgerrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	}
}

func TestSubmitOnePerProductAndUser(t *testing.T) {
	svc, _, product := newReviewsFixture(t)
	userID := uuid.New()

	_, err := svc.Submit(context.Background(), SubmitInput{
		ProductID: product.ID,
		UserID:    userID,
		Rating:    5,
		Title:     "Premier avis",
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), SubmitInput{
		ProductID: product.ID,
		UserID:    userID,
		Rating:    2,
		Title:     "Deuxième avis",
	})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestListApprovedFiltersModeration(t *testing.T) {
	svc, conn, product := newReviewsFixture(t)

	approved := &models.Review{
		ID:         uuid.New(),
		ProductID:  product.ID,
		UserID:     uuid.New(),
		Rating:     5,
		Title:      "Publié",
		IsApproved: true,
	}
	pending := &models.Review{
		ID:        uuid.New(),
		ProductID: product.ID,
		UserID:    uuid.New(),
		Rating:    1,
		Title:     "En attente",
	}
	require.NoError(t, conn.Create(approved).Error)
	require.NoError(t, conn.Create(pending).Error)

	rows, err := svc.ListApproved(context.Background(), product.ID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Publié", rows[0].Title)
}
