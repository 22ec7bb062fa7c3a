package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxProductName = 100

// ProductInput is the payload for creating a product of either kind. Fields
// that do not apply to Kind are ignored.
type ProductInput struct {
	Kind        models.Kind
	Name        string
	Description string
	Image       *string
	VendorID    uint
	CategoryID  uint
	Price       decimal.Decimal
	Stock       int

	Dimensions *string
	Weight     decimal.NullDecimal

	OS           *string
	Requirements *string
}

// ProductPatch changes a product in place. Nil fields are left alone and
// the slug never changes.
type ProductPatch struct {
	Name        *string
	Description *string
	Image       *string
	Price       *decimal.Decimal
	Stock       *int
	Active      *bool

	Dimensions *string
	Weight     *decimal.Decimal

	OS           *string
	Requirements *string
}

// ListOptions narrows ProductService.List.
type ListOptions struct {
	CategoryID           *uint
	IncludeSubcategories bool
	VendorID             uint
	ActiveOnly           bool
	Limit                int
	Offset               int
}

// ProductService owns the catalog of physical and digital products.
type ProductService struct {
	db       *gorm.DB
	products *repositories.ProductRepository
	slugs    SlugAllocator
	cache    Cacher
}

// ProductOption customises a ProductService.
type ProductOption func(*ProductService)

func WithSlugAllocator(a SlugAllocator) ProductOption {
	return func(s *ProductService) { s.slugs = a }
}

func WithProductCache(c Cacher) ProductOption {
	return func(s *ProductService) {
		if c != nil {
			s.cache = c
		}
	}
}

func NewProductService(db *gorm.DB, opts ...ProductOption) *ProductService {
	s := &ProductService{
		db:       db,
		products: repositories.NewProductRepository(db),
		slugs:    StoreSlugAllocator{Scope: SlugScopeKind},
		cache:    NoCache{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validateProductInput(in *ProductInput) error {
	if _, ok := models.ParseKind(string(in.Kind)); !ok {
		return invalid("kind", "must be physical or digital")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("name", "is required")
	}
	if utf8.RuneCountInString(in.Name) > maxProductName {
		return invalid("name", "must not exceed 100 characters")
	}
	if in.Price.IsNegative() {
		return invalid("price", "Price cannot be negative")
	}
	if in.Stock < 0 {
		return invalid("stock", "cannot be negative")
	}
	if in.Weight.Valid && in.Weight.Decimal.IsNegative() {
		return invalid("weight", "cannot be negative")
	}
	if in.VendorID == 0 {
		return invalid("vendor_id", "is required")
	}
	if in.CategoryID == 0 {
		return invalid("category_id", "is required")
	}
	return nil
}

func buildProduct(in ProductInput) models.Product {
	p := models.NewProduct(in.Kind)
	switch v := p.(type) {
	case *models.PhysicalProduct:
		v.Dimensions = in.Dimensions
		v.Weight = in.Weight
	case *models.DigitalProduct:
		v.OS = in.OS
		v.Requirements = in.Requirements
	}

	now := time.Now()
	b := p.Base()
	b.Name = in.Name
	b.Description = in.Description
	b.Image = in.Image
	b.VendorID = in.VendorID
	b.CategoryID = in.CategoryID
	b.Price = in.Price
	b.Stock = in.Stock
	b.Active = true
	b.CreatedAt = now
	b.UpdatedAt = now
	return p
}

// Create validates in, assigns a slug and inserts the product. The vendor
// must have a vendor profile. If the insert loses a slug race the slug is
// recomputed once; a second loss returns SlugConflictError.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := validateProductInput(&in); err != nil {
		return nil, err
	}

	p := buildProduct(in)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireVendor(ctx, tx, in.VendorID); err != nil {
			return err
		}
		if _, err := repositories.NewCategoryRepository(tx).FindByID(ctx, in.CategoryID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return notFound("category", in.CategoryID)
			}
			return err
		}
		return s.insertWithSlug(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	metrics.ProductsCreated.WithLabelValues(string(in.Kind)).Inc()
	logger.WithCtx(ctx).Info("product created",
		"kind", in.Kind, "id", p.Base().ID, "slug", p.Base().Slug, "category_id", in.CategoryID)
	return p, nil
}

func (s *ProductService) insertWithSlug(ctx context.Context, tx *gorm.DB, p models.Product) error {
	b := p.Base()
	kind := p.Kind()

	for attempt := 1; ; attempt++ {
		slug, err := s.slugs.Allocate(ctx, tx, kind, b.CategoryID, b.Name)
		if err != nil {
			return err
		}
		b.Slug = slug

		// Savepoint so a unique violation leaves the outer transaction usable.
		err = tx.Transaction(func(sp *gorm.DB) error {
			return repositories.NewProductRepository(sp).Create(ctx, p)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) {
			return err
		}

		metrics.SlugConflicts.WithLabelValues(string(kind)).Inc()
		logger.WithCtx(ctx).Warn("slug conflict", "kind", kind, "slug", slug, "attempt", attempt)
		b.ID = 0
		if attempt == 2 {
			return &SlugConflictError{Kind: kind, Slug: slug}
		}
	}
}

func requireVendor(ctx context.Context, tx *gorm.DB, userID uint) error {
	users := repositories.NewUserRepository(tx)
	if _, err := users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("user", userID)
		}
		return err
	}
	if _, err := users.FindVendorByUserID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotVendor
		}
		return err
	}
	return nil
}

// Get returns one product, served from the cache when possible.
func (s *ProductService) Get(ctx context.Context, kind models.Kind, id uint) (models.Product, error) {
	key := productKey(kind, id)
	cached := models.NewProduct(kind)
	if s.cache.Get(ctx, key, cached) {
		metrics.CacheHits.WithLabelValues(string(kind)).Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues(string(kind)).Inc()

	p, err := s.products.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound(string(kind)+" product", id)
		}
		return nil, err
	}
	if err := s.cache.Set(ctx, key, p); err != nil {
		logger.WithCtx(ctx).Warn("product cache write failed", "key", key, "error", err)
	}
	return p, nil
}

// List returns products of kind, newest first. With IncludeSubcategories
// the category filter covers the whole subtree.
func (s *ProductService) List(ctx context.Context, kind models.Kind, opts ListOptions) ([]models.Product, error) {
	if _, ok := models.ParseKind(string(kind)); !ok {
		return nil, invalid("kind", "must be physical or digital")
	}

	f := repositories.ProductFilter{
		VendorID:   opts.VendorID,
		ActiveOnly: opts.ActiveOnly,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	}
	if opts.CategoryID != nil {
		f.CategoryIDs = []uint{*opts.CategoryID}
		if opts.IncludeSubcategories {
			tree, err := loadTree(ctx, repositories.NewCategoryRepository(s.db))
			if err != nil {
				return nil, err
			}
			if ids := tree.Subtree(*opts.CategoryID); len(ids) > 0 {
				f.CategoryIDs = ids
			}
		}
	}
	return s.products.List(ctx, kind, f)
}

// Update applies patch. The slug is left untouched even when the name
// changes.
func (s *ProductService) Update(ctx context.Context, kind models.Kind, id uint, patch ProductPatch) (models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.products.WithTx(tx)

		var err error
		p, err = repo.FindByID(ctx, kind, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return notFound(string(kind)+" product", id)
			}
			return err
		}
		if err := applyPatch(p, patch); err != nil {
			return err
		}
		p.Base().UpdatedAt = time.Now()
		return repo.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	forgetProducts(ctx, s.cache, kind, id)
	logger.WithCtx(ctx).Info("product updated", "kind", kind, "id", id)
	return p, nil
}

func applyPatch(p models.Product, patch ProductPatch) error {
	b := p.Base()
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return invalid("name", "is required")
		}
		if utf8.RuneCountInString(name) > maxProductName {
			return invalid("name", "must not exceed 100 characters")
		}
		b.Name = name
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	if patch.Image != nil {
		b.Image = patch.Image
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return invalid("price", "Price cannot be negative")
		}
		b.Price = *patch.Price
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return invalid("stock", "cannot be negative")
		}
		b.Stock = *patch.Stock
	}
	if patch.Active != nil {
		b.Active = *patch.Active
	}

	switch v := p.(type) {
	case *models.PhysicalProduct:
		if patch.Dimensions != nil {
			v.Dimensions = patch.Dimensions
		}
		if patch.Weight != nil {
			if patch.Weight.IsNegative() {
				return invalid("weight", "cannot be negative")
			}
			v.Weight = decimal.NewNullDecimal(*patch.Weight)
		}
	case *models.DigitalProduct:
		if patch.OS != nil {
			v.OS = patch.OS
		}
		if patch.Requirements != nil {
			v.Requirements = patch.Requirements
		}
	}
	return nil
}

// Delete removes a product and every line item that references it.
func (s *ProductService) Delete(ctx context.Context, kind models.Kind, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.products.WithTx(tx).FindByID(ctx, kind, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return notFound(string(kind)+" product", id)
			}
			return err
		}
		if err := repositories.NewOrderRepository(tx).DeleteItemsForProducts(ctx, kind, []uint{id}); err != nil {
			return err
		}
		return s.products.WithTx(tx).DeleteIDs(ctx, kind, []uint{id})
	})
	if err != nil {
		return err
	}

	forgetProducts(ctx, s.cache, kind, id)
	logger.WithCtx(ctx).Info("product deleted", "kind", kind, "id", id)
	return nil
}
