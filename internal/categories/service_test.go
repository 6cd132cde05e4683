package categories

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/boutiquemaison/storefront-backend/pkg/db"
	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	pkgerrors "github.com/boutiquemaison/storefront-backend/pkg/errors"
)

func setupCategoriesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	categoriesTable := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  image_path TEXT,
  parent_id TEXT,
  slug TEXT NOT NULL UNIQUE,
  icon TEXT NOT NULL DEFAULT '',
  display_order INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME
);`
	productsTable := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price TEXT NOT NULL,
  promo_price TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  low_stock_threshold INTEGER NOT NULL DEFAULT 5,
  reference TEXT,
  sku TEXT,
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
);`
	require.NoError(t, conn.Exec(categoriesTable).Error)
	require.NoError(t, conn.Exec(productsTable).Error)
	return conn
}

func newTestService(t *testing.T) (Service, *Repository, *gorm.DB) {
	t.Helper()
	conn := setupCategoriesTestDB(t)
	repo := NewRepository(conn)
	client := db.NewFromGorm(conn)
	svc, err := NewService(repo, client)
	require.NoError(t, err)
	return svc, repo, conn
}

func mustCreateCategory(t *testing.T, svc Service, name string, parentID *uuid.UUID, order int) *models.Category {
	t.Helper()
	created, err := svc.Create(context.Background(), CreateCategoryInput{
		Name:         name,
		ParentID:     parentID,
		DisplayOrder: order,
		IsActive:     true,
	})
	require.NoError(t, err)
	return created
}

func TestCreateDerivesSlug(t *testing.T) {
	svc, _, _ := newTestService(t)

	created := mustCreateCategory(t, svc, "Décoration Murale", nil, 0)
	assert.Equal(t, "decoration-murale", created.Slug)
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustCreateCategory(t, svc, "Meubles", nil, 0)

	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: "meubles", IsActive: true})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestListChildrenOrdersByDisplayOrderThenName(t *testing.T) {
	svc, _, _ := newTestService(t)
	root := mustCreateCategory(t, svc, "Meubles", nil, 0)
	mustCreateCategory(t, svc, "Tables", &root.ID, 2)
	mustCreateCategory(t, svc, "Chaises", &root.ID, 1)
	mustCreateCategory(t, svc, "Armoires", &root.ID, 1)

	children, err := svc.ListChildren(context.Background(), &root.ID, true)
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, "Armoires", children[0].Name)
	assert.Equal(t, "Chaises", children[1].Name)
	assert.Equal(t, "Tables", children[2].Name)
}

func TestAllDescendantsCoversWholeSubtreeOnce(t *testing.T) {
	svc, _, _ := newTestService(t)
	root := mustCreateCategory(t, svc, "Meubles", nil, 0)
	salon := mustCreateCategory(t, svc, "Salon", &root.ID, 0)
	mustCreateCategory(t, svc, "Canapés", &salon.ID, 0)
	mustCreateCategory(t, svc, "Chambre", &root.ID, 1)
	mustCreateCategory(t, svc, "Cuisine", nil, 2) // unrelated root

	descendants, err := svc.AllDescendants(context.Background(), root.ID)
	require.NoError(t, err)

	names := make(map[string]int)
	for _, d := range descendants {
		names[d.Name]++
	}
	assert.Equal(t, map[string]int{"Salon": 1, "Canapés": 1, "Chambre": 1}, names)
}

func TestBreadcrumbPathRootFirst(t *testing.T) {
	svc, _, _ := newTestService(t)
	root := mustCreateCategory(t, svc, "Meubles", nil, 0)
	salon := mustCreateCategory(t, svc, "Salon", &root.ID, 0)
	leaf := mustCreateCategory(t, svc, "Canapés", &salon.ID, 0)

	path, err := svc.BreadcrumbPath(context.Background(), leaf.ID)
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, "Meubles", path[0].Name)
	assert.Equal(t, "Salon", path[1].Name)
	assert.Equal(t, "Canapés", path[2].Name)
}

func TestUpdateRejectsReparentOntoDescendant(t *testing.T) {
	svc, _, _ := newTestService(t)
	root := mustCreateCategory(t, svc, "Meubles", nil, 0)
	salon := mustCreateCategory(t, svc, "Salon", &root.ID, 0)
	leaf := mustCreateCategory(t, svc, "Canapés", &salon.ID, 0)

	_, err := svc.Update(context.Background(), root.ID, UpdateCategoryInput{ParentID: &leaf.ID})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = svc.Update(context.Background(), root.ID, UpdateCategoryInput{ParentID: &root.ID})
	require.Error(t, err)
}

func TestTreeNestsActiveNodes(t *testing.T) {
	svc, _, _ := newTestService(t)
	root := mustCreateCategory(t, svc, "Meubles", nil, 0)
	salon := mustCreateCategory(t, svc, "Salon", &root.ID, 0)
	hidden := mustCreateCategory(t, svc, "Archivé", &root.ID, 1)
	_, err := svc.Update(context.Background(), hidden.ID, UpdateCategoryInput{IsActive: boolPtr(false)})
	require.NoError(t, err)

	tree, err := svc.Tree(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, root.ID, tree[0].ID)
	assert.Equal(t, "/categories/meubles", tree[0].URL)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, salon.ID, tree[0].Children[0].ID)
	assert.Empty(t, tree[0].Children[0].Children)
}

func TestDeleteDisablesReferencedCategory(t *testing.T) {
	svc, _, conn := newTestService(t)
	root := mustCreateCategory(t, svc, "Meubles", nil, 0)

	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Table basse",
		CategoryID: root.ID,
		Stock:      3,
	}
	require.NoError(t, conn.Create(product).Error)

	require.NoError(t, svc.Delete(context.Background(), root.ID))

	var reloaded models.Category
	require.NoError(t, conn.First(&reloaded, "id = ?", root.ID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestDeleteRemovesUnreferencedLeaf(t *testing.T) {
	svc, _, conn := newTestService(t)
	leaf := mustCreateCategory(t, svc, "Éphémère", nil, 0)

	require.NoError(t, svc.Delete(context.Background(), leaf.ID))

	var count int64
	require.NoError(t, conn.Model(&models.Category{}).Where("id = ?", leaf.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func boolPtr(b bool) *bool { return &b }
