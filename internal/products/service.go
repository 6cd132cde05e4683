package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/boutiquemaison/storefront-backend/pkg/db"
	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	"github.com/boutiquemaison/storefront-backend/pkg/enums"
	pkgerrors "github.com/boutiquemaison/storefront-backend/pkg/errors"
	"github.com/boutiquemaison/storefront-backend/pkg/pagination"
)

const (
	relatedProductsLimit  = 4
	referenceMaxAttempts  = 10
	defaultHomeListLength = 8
)

// Service exposes catalog browsing and product management operations.
type Service interface {
	Find(ctx context.Context, input FindInput) (*ListResult, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error)
	ListFeatured(ctx context.Context, limit int) ([]models.Product, error)
	ListNew(ctx context.Context, limit int) ([]models.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
}

// FindInput carries catalog filters plus the requested page.
type FindInput struct {
	CategoryID         *uuid.UUID
	IncludeDescendants bool
	BrandID            *uuid.UUID
	PriceMin           *decimal.Decimal
	PriceMax           *decimal.Decimal
	Query              string
	InStock            bool
	OnPromotion        bool
	Page               int
}

// ListResult is one page of catalog results.
type ListResult struct {
	Items []models.Product
	Page  pagination.Page
}

// Detail is a product with its related picks for the detail page.
type Detail struct {
	Product *models.Product
	Related []models.Product
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name              string
	Description       string
	Price             decimal.Decimal
	PromoPrice        *decimal.Decimal
	Stock             int
	LowStockThreshold *int
	Reference         *string
	SKU               *string
	Barcode           string
	WeightKG          *decimal.Decimal
	Dimensions        string
	Color             string
	Material          string
	Condition         enums.ProductCondition
	CategoryID        uuid.UUID
	BrandID           *uuid.UUID
	SupplierID        *uuid.UUID
	PrimaryImagePath  string
	IsActive          bool
	IsFeatured        bool
	IsNew             bool
	MetaTitle         string
	MetaDescription   string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name              *string
	Description       *string
	Price             *decimal.Decimal
	PromoPrice        *decimal.Decimal
	ClearPromoPrice   bool
	Stock             *int
	LowStockThreshold *int
	Reference         *string
	SKU               *string
	CategoryID        *uuid.UUID
	BrandID           *uuid.UUID
	SupplierID        *uuid.UUID
	PrimaryImagePath  *string
	IsActive          *bool
	IsFeatured        *bool
	IsNew             *bool
}

type categoryReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type descendantLister interface {
	AllDescendants(ctx context.Context, id uuid.UUID) ([]models.Category, error)
}

type service struct {
	repo        *Repository
	dbClient    *db.Client
	categories  categoryReader
	descendants descendantLister
	pageSize    int
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, categories categoryReader, descendants descendantLister, pageSize int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category reader required")
	}
	if descendants == nil {
		return nil, fmt.Errorf("descendant lister required")
	}
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &service{
		repo:        repo,
		dbClient:    dbClient,
		categories:  categories,
		descendants: descendants,
		pageSize:    pageSize,
	}, nil
}

func (s *service) Find(ctx context.Context, input FindInput) (*ListResult, error) {
	filters := Filters{
		BrandID:     input.BrandID,
		PriceMin:    input.PriceMin,
		PriceMax:    input.PriceMax,
		Query:       input.Query,
		InStock:     input.InStock,
		OnPromotion: input.OnPromotion,
		ActiveOnly:  true,
	}

	if input.CategoryID != nil {
		ids := []uuid.UUID{*input.CategoryID}
		if input.IncludeDescendants {
			descendants, err := s.descendants.AllDescendants(ctx, *input.CategoryID)
			if err != nil {
				return nil, err
			}
			for _, d := range descendants {
				ids = append(ids, d.ID)
			}
		}
		filters.CategoryIDs = ids
	}

	params := pagination.Params{Page: input.Page, PageSize: s.pageSize}.Normalize()
	items, total, err := s.repo.Find(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	return &ListResult{
		Items: items,
		Page:  pagination.NewPage(params, total),
	}, nil
}

func (s *service) GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	product, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	related, err := s.repo.ListRelated(ctx, product.CategoryID, product.ID, relatedProductsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading related products")
	}

	return &Detail{Product: product, Related: related}, nil
}

func (s *service) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = defaultHomeListLength
	}
	rows, err := s.repo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing featured products")
	}
	return rows, nil
}

func (s *service) ListNew(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = defaultHomeListLength
	}
	rows, err := s.repo.ListNew(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing new products")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}
	if err := s.ensureCategoryExists(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(input.Name),
		Description:      input.Description,
		Price:            input.Price,
		PromoPrice:       input.PromoPrice,
		Stock:            input.Stock,
		Reference:        normalizeOptional(input.Reference),
		SKU:              normalizeOptional(input.SKU),
		Barcode:          input.Barcode,
		WeightKG:         input.WeightKG,
		Dimensions:       input.Dimensions,
		Color:            input.Color,
		Material:         input.Material,
		Condition:        input.Condition,
		CategoryID:       input.CategoryID,
		BrandID:          input.BrandID,
		SupplierID:       input.SupplierID,
		PrimaryImagePath: input.PrimaryImagePath,
		IsActive:         input.IsActive,
		IsFeatured:       input.IsFeatured,
		IsNew:            input.IsNew,
		MetaTitle:        input.MetaTitle,
		MetaDescription:  input.MetaDescription,
	}
	if product.Condition == "" {
		product.Condition = enums.ProductConditionNew
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	} else {
		product.LowStockThreshold = 5
	}

	var created *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if product.Reference == nil {
			reference, err := s.assignReference(ctx, repo, product.ID, product.Name)
			if err != nil {
				return err
			}
			product.Reference = &reference
		}
		var err error
		created, err = repo.Create(ctx, product)
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product reference or sku already exists")
		}
		var appErr *pkgerrors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be blank")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	switch {
	case input.ClearPromoPrice:
		product.PromoPrice = nil
	case input.PromoPrice != nil:
		if input.PromoPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo price cannot be negative")
		}
		product.PromoPrice = input.PromoPrice
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	if input.LowStockThreshold != nil {
		if *input.LowStockThreshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold cannot be negative")
		}
		product.LowStockThreshold = *input.LowStockThreshold
	}
	if input.Reference != nil {
		product.Reference = normalizeOptional(input.Reference)
	}
	if input.SKU != nil {
		product.SKU = normalizeOptional(input.SKU)
	}
	if input.CategoryID != nil {
		if err := s.ensureCategoryExists(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}
	if input.BrandID != nil {
		product.BrandID = input.BrandID
	}
	if input.SupplierID != nil {
		product.SupplierID = input.SupplierID
	}
	if input.PrimaryImagePath != nil {
		product.PrimaryImagePath = *input.PrimaryImagePath
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsNew != nil {
		product.IsNew = *input.IsNew
	}

	var updated *models.Product
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if product.Reference == nil {
			reference, err := s.assignReference(ctx, repo, product.ID, product.Name)
			if err != nil {
				return err
			}
			product.Reference = &reference
		}
		var err error
		updated, err = repo.Save(ctx, product)
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product reference or sku already exists")
		}
		var appErr *pkgerrors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return updated, nil
}

// assignReference generates the catalog reference, probing for collisions
// inside the save transaction.
func (s *service) assignReference(ctx context.Context, repo *Repository, id uuid.UUID, name string) (string, error) {
	base := buildReference(id, name)
	for attempt := 0; attempt < referenceMaxAttempts; attempt++ {
		candidate := withSuffix(base, attempt)
		exists, err := repo.ReferenceExists(ctx, candidate, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "could not assign a unique product reference")
}

func (s *service) ensureCategoryExists(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking category")
	}
	return nil
}

func validateCreateInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.PromoPrice != nil && input.PromoPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "promo price cannot be negative")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if input.LowStockThreshold != nil && *input.LowStockThreshold < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold cannot be negative")
	}
	return nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
