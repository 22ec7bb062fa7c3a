package services

import (
	"context"
	"errors"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"gorm.io/gorm"
)

// CategoryInput is the payload for creating a category.
type CategoryInput struct {
	Name        string
	ParentID    *uint
	Description *string
}

// DeleteResult counts what a cascading category delete removed.
type DeleteResult struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
}

// CategoryService maintains the category forest.
type CategoryService struct {
	db         *gorm.DB
	categories *repositories.CategoryRepository
	cache      Cacher
}

func NewCategoryService(db *gorm.DB, cache Cacher) *CategoryService {
	if cache == nil {
		cache = NoCache{}
	}
	return &CategoryService{
		db:         db,
		categories: repositories.NewCategoryRepository(db),
		cache:      cache,
	}
}

// Create adds a category. Names are unique across the whole tree.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Category{}, invalid("name", "is required")
	}
	if utf8.RuneCountInString(name) > 255 {
		return models.Category{}, invalid("name", "must not exceed 255 characters")
	}

	c := models.Category{Name: name, ParentID: in.ParentID, Description: in.Description}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.categories.WithTx(tx)

		exists, err := repo.NameExists(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			return &DuplicateNameError{Name: name}
		}

		if in.ParentID != nil {
			if _, err := repo.FindByID(ctx, *in.ParentID); err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return notFound("category", *in.ParentID)
				}
				return err
			}
		}

		if err := repo.Create(ctx, &c); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return &DuplicateNameError{Name: name}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}

	logger.WithCtx(ctx).Info("category created", "id", c.ID, "name", c.Name, "parent_id", c.ParentID)
	return c, nil
}

// GetOrCreate returns the category called name, creating a root if absent.
func (s *CategoryService) GetOrCreate(ctx context.Context, name string) (models.Category, error) {
	c, err := s.categories.FindByName(ctx, strings.TrimSpace(name))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return models.Category{}, err
	}
	return s.Create(ctx, CategoryInput{Name: name})
}

func (s *CategoryService) Get(ctx context.Context, id uint) (models.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return c, notFound("category", id)
	}
	return c, err
}

// ChildrenOf yields the direct children of parentID (roots when nil) in
// name order. The sequence is lazy and may be ranged over repeatedly.
func (s *CategoryService) ChildrenOf(ctx context.Context, parentID *uint) iter.Seq2[models.Category, error] {
	return s.categories.Children(ctx, parentID)
}

// Tree loads the whole forest into an arena.
func (s *CategoryService) Tree(ctx context.Context) (*CategoryTree, error) {
	return loadTree(ctx, s.categories)
}

func loadTree(ctx context.Context, repo *repositories.CategoryRepository) (*CategoryTree, error) {
	all, err := repo.All(ctx)
	if err != nil {
		return nil, err
	}
	return NewCategoryTree(all), nil
}

// Reparent moves id under parentID, or to the top level when parentID is
// nil. Moving a category under itself or one of its descendants fails with
// CycleError.
func (s *CategoryService) Reparent(ctx context.Context, id uint, parentID *uint) (models.Category, error) {
	var moved models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.categories.WithTx(tx)
		tree, err := loadTree(ctx, repo)
		if err != nil {
			return err
		}

		node, ok := tree.Node(id)
		if !ok {
			return notFound("category", id)
		}
		if parentID != nil {
			pid := *parentID
			if _, ok := tree.Node(pid); !ok {
				return notFound("category", pid)
			}
			if pid == id || tree.IsAncestor(id, pid) {
				return &CycleError{CategoryID: id, ParentID: pid}
			}
		}

		if err := repo.UpdateParent(ctx, id, parentID); err != nil {
			return err
		}
		moved = node.Category
		moved.ParentID = parentID
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}

	logger.WithCtx(ctx).Info("category moved", "id", id, "parent_id", parentID)
	return moved, nil
}

// Delete removes id, every descendant, every product filed under any of
// them, and the order line items referencing those products.
func (s *CategoryService) Delete(ctx context.Context, id uint) (DeleteResult, error) {
	var res DeleteResult
	var removed map[models.Kind][]uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.categories.WithTx(tx)
		tree, err := loadTree(ctx, repo)
		if err != nil {
			return err
		}

		subtree := tree.Subtree(id)
		if len(subtree) == 0 {
			return notFound("category", id)
		}

		removed, err = purgeProducts(ctx, tx, subtree)
		if err != nil {
			return err
		}
		if err := repo.DeleteIDs(ctx, subtree); err != nil {
			return err
		}

		res.Categories = len(subtree)
		for _, ids := range removed {
			res.Products += len(ids)
		}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}

	for kind, ids := range removed {
		forgetProducts(ctx, s.cache, kind, ids...)
	}
	metrics.CategoriesDeleted.Add(float64(res.Categories))
	logger.WithCtx(ctx).Info("category deleted", "id", id, "categories", res.Categories, "products", res.Products)
	return res, nil
}

// purgeProducts deletes both kinds of product filed under categoryIDs along
// with their line items, returning the removed ids per kind.
func purgeProducts(ctx context.Context, tx *gorm.DB, categoryIDs []uint) (map[models.Kind][]uint, error) {
	products := repositories.NewProductRepository(tx)
	orders := repositories.NewOrderRepository(tx)

	removed := make(map[models.Kind][]uint, len(models.Kinds))
	for _, kind := range models.Kinds {
		ids, err := products.IDsInCategories(ctx, kind, categoryIDs)
		if err != nil {
			return nil, err
		}
		if err := orders.DeleteItemsForProducts(ctx, kind, ids); err != nil {
			return nil, err
		}
		if err := products.DeleteIDs(ctx, kind, ids); err != nil {
			return nil, err
		}
		removed[kind] = ids
	}
	return removed, nil
}
