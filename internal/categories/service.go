package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boutiquemaison/storefront-backend/pkg/db"
	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	pkgerrors "github.com/boutiquemaison/storefront-backend/pkg/errors"
)

// maxTreeDepth bounds every hierarchy walk so a corrupted parent link cannot
// loop forever.
const maxTreeDepth = 32

// Service exposes category management and navigation reads.
type Service interface {
	Create(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListChildren(ctx context.Context, parentID *uuid.UUID, activeOnly bool) ([]models.Category, error)
	AllDescendants(ctx context.Context, id uuid.UUID) ([]models.Category, error)
	BreadcrumbPath(ctx context.Context, id uuid.UUID) ([]models.Category, error)
	Tree(ctx context.Context, activeOnly bool) ([]TreeNode, error)
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name         string
	Description  string
	Slug         string
	Icon         string
	ImagePath    *string
	ParentID     *uuid.UUID
	DisplayOrder int
	IsActive     bool
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name         *string
	Description  *string
	Slug         *string
	Icon         *string
	ImagePath    *string
	ParentID     *uuid.UUID
	ClearParent  bool
	DisplayOrder *int
	IsActive     *bool
}

// TreeNode is one level of the nested navigation payload.
type TreeNode struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	Icon     string     `json:"icon"`
	URL      string     `json:"url"`
	Children []TreeNode `json:"children"`
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a category service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) Create(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category slug cannot be derived from name")
	}

	if input.ParentID != nil {
		if _, err := s.loadCategory(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	category := &models.Category{
		Name:         name,
		Description:  input.Description,
		Slug:         slug,
		Icon:         input.Icon,
		ImagePath:    input.ImagePath,
		ParentID:     input.ParentID,
		DisplayOrder: input.DisplayOrder,
		IsActive:     input.IsActive,
	}

	created, err := s.repo.Create(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name or slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating category")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be blank")
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if slug == "" {
			slug = Slugify(category.Name)
		}
		category.Slug = slug
	}
	if input.Icon != nil {
		category.Icon = *input.Icon
	}
	if input.ImagePath != nil {
		category.ImagePath = input.ImagePath
	}
	if input.DisplayOrder != nil {
		category.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	switch {
	case input.ClearParent:
		category.ParentID = nil
	case input.ParentID != nil:
		if err := s.ensureValidParent(ctx, category.ID, *input.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = input.ParentID
	}

	updated, err := s.repo.Save(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name or slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating category")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return err
	}

	productCount, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting category products")
	}
	childCount, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting category children")
	}

	// Referenced categories are disabled, never removed, so existing product
	// links and order history stay resolvable.
	if productCount > 0 || childCount > 0 {
		category.IsActive = false
		if _, err := s.repo.Save(ctx, category); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "disabling category")
		}
		return nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting category")
	}
	return nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	return category, nil
}

func (s *service) ListChildren(ctx context.Context, parentID *uuid.UUID, activeOnly bool) ([]models.Category, error) {
	if parentID != nil {
		if _, err := s.loadCategory(ctx, *parentID); err != nil {
			return nil, err
		}
	}
	rows, err := s.repo.ListChildren(ctx, parentID, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing category children")
	}
	return rows, nil
}

// AllDescendants walks the subtree under id breadth-first and returns every
// reachable node exactly once, excluding the node itself.
func (s *service) AllDescendants(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	if _, err := s.loadCategory(ctx, id); err != nil {
		return nil, err
	}

	all, err := s.repo.ListAll(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}

	byParent := childIndex(all)
	seen := map[uuid.UUID]bool{id: true}

	var result []models.Category
	frontier := []uuid.UUID{id}
	for depth := 0; depth < maxTreeDepth && len(frontier) > 0; depth++ {
		var next []uuid.UUID
		for _, parent := range frontier {
			for _, child := range byParent[parent] {
				if seen[child.ID] {
					continue
				}
				seen[child.ID] = true
				result = append(result, child)
				next = append(next, child.ID)
			}
		}
		frontier = next
	}
	return result, nil
}

// BreadcrumbPath returns the ancestor chain ordered root first, ending with
// the node itself.
func (s *service) BreadcrumbPath(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	current, err := s.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	path := []models.Category{*current}
	seen := map[uuid.UUID]bool{current.ID: true}
	for depth := 0; depth < maxTreeDepth && current.ParentID != nil; depth++ {
		parent, err := s.loadCategory(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		if seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		path = append([]models.Category{*parent}, path...)
		current = parent
	}
	return path, nil
}

// Tree assembles the nested navigation payload from a single query.
func (s *service) Tree(ctx context.Context, activeOnly bool) ([]TreeNode, error) {
	all, err := s.repo.ListAll(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}

	byParent := childIndex(all)
	return buildTree(byParent, nil, 0), nil
}

func (s *service) loadCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	return category, nil
}

// ensureValidParent rejects reparenting a node onto itself or onto one of its
// own descendants.
func (s *service) ensureValidParent(ctx context.Context, id, parentID uuid.UUID) error {
	if parentID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "category cannot be its own parent")
	}
	if _, err := s.loadCategory(ctx, parentID); err != nil {
		return err
	}

	descendants, err := s.AllDescendants(ctx, id)
	if err != nil {
		return err
	}
	for _, d := range descendants {
		if d.ID == parentID {
			return pkgerrors.New(pkgerrors.CodeValidation, "cannot move a category under its own descendant")
		}
	}
	return nil
}

func childIndex(all []models.Category) map[uuid.UUID][]models.Category {
	byParent := make(map[uuid.UUID][]models.Category, len(all))
	for _, c := range all {
		key := uuid.Nil
		if c.ParentID != nil {
			key = *c.ParentID
		}
		byParent[key] = append(byParent[key], c)
	}
	return byParent
}

func buildTree(byParent map[uuid.UUID][]models.Category, parentID *uuid.UUID, depth int) []TreeNode {
	if depth >= maxTreeDepth {
		return nil
	}

	key := uuid.Nil
	if parentID != nil {
		key = *parentID
	}

	nodes := make([]TreeNode, 0, len(byParent[key]))
	for _, c := range byParent[key] {
		id := c.ID
		nodes = append(nodes, TreeNode{
			ID:       c.ID,
			Name:     c.Name,
			Slug:     c.Slug,
			Icon:     c.Icon,
			URL:      "/categories/" + c.Slug,
			Children: buildTree(byParent, &id, depth+1),
		})
	}
	return nodes
}
