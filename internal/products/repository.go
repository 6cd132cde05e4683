package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	"github.com/boutiquemaison/storefront-backend/pkg/pagination"
)

// Filters narrows a catalog listing. All set filters combine with AND.
// PriceMin and PriceMax bound the list price; a product discounted into
// the range by its promo price is not matched.
type Filters struct {
	CategoryIDs []uuid.UUID
	BrandID     *uuid.UUID
	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
	Query       string
	InStock     bool
	OnPromotion bool
	ActiveOnly  bool
}

// Repository wraps product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Save persists all fields of an existing product row.
func (r *Repository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads products for the given ids, without ordering guarantees.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Find lists products matching the filters, newest first, with a total count
// for the unpaginated match set.
func (r *Repository) Find(ctx context.Context, filters Filters, params pagination.Params) ([]models.Product, int64, error) {
	params = params.Normalize()
	query := r.applyFilters(r.db.WithContext(ctx).Model(&models.Product{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Order("created_at DESC, id").
		Limit(params.PageSize).
		Offset(params.Offset()).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// GetDetail fetches an active product with its ordered gallery and brand.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Brand").
		Preload("Category").
		First(&product, "id = ? AND is_active = ?", id, true).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListRelated returns up to limit active products sharing the category,
// excluding the product itself.
func (r *Repository) ListRelated(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ? AND is_active = ?", categoryID, excludeID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// ListFeatured returns active featured products, newest first.
func (r *Repository) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	return r.listFlagged(ctx, "is_featured", limit)
}

// ListNew returns active new-arrival products, newest first.
func (r *Repository) ListNew(ctx context.Context, limit int) ([]models.Product, error) {
	return r.listFlagged(ctx, "is_new", limit)
}

func (r *Repository) listFlagged(ctx context.Context, column string, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where(column+" = ? AND is_active = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// ReferenceExists reports whether any other product already carries the
// reference.
func (r *Repository) ReferenceExists(ctx context.Context, reference string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("reference = ? AND id <> ?", reference, excludeID).
		Count(&count).
		Error
	return count > 0, err
}

// DecrementStock atomically reduces stock by qty, refusing to go negative.
// The returned bool is false when the row is missing or stock is short.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) applyFilters(query *gorm.DB, filters Filters) *gorm.DB {
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if len(filters.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", filters.CategoryIDs)
	}
	if filters.BrandID != nil {
		query = query.Where("brand_id = ?", *filters.BrandID)
	}
	if filters.PriceMin != nil {
		query = query.Where("price >= ?", *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		query = query.Where("price <= ?", *filters.PriceMax)
	}
	if filters.InStock {
		query = query.Where("stock > 0")
	}
	if filters.OnPromotion {
		query = query.Where("promo_price IS NOT NULL AND promo_price < price")
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(COALESCE(reference, '')) LIKE ?",
			like, like, like,
		)
	}
	return query
}
