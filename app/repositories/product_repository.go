package repositories

import (
	"context"

	"github.com/shashiranjanraj/bazaar/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows List results.
type ProductFilter struct {
	CategoryIDs []uint
	VendorID    uint
	ActiveOnly  bool
	Limit       int
	Offset      int
}

// ProductRepository stores both product kinds; every method takes the kind
// and resolves the table from it.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) model(ctx context.Context, kind models.Kind) *gorm.DB {
	return r.db.WithContext(ctx).Model(models.NewProduct(kind))
}

// Create inserts p. A clash on (category_id, slug) returns ErrDuplicate.
func (r *ProductRepository) Create(ctx context.Context, p models.Product) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

// Save writes every column of p back, refreshing updated_at.
func (r *ProductRepository) Save(ctx context.Context, p models.Product) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error)
}

func (r *ProductRepository) FindByID(ctx context.Context, kind models.Kind, id uint) (models.Product, error) {
	p := models.NewProduct(kind)
	if err := r.db.WithContext(ctx).First(p, id).Error; err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// List returns products newest first.
func (r *ProductRepository) List(ctx context.Context, kind models.Kind, f ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx)
	if len(f.CategoryIDs) > 0 {
		q = q.Where("category_id IN ?", f.CategoryIDs)
	}
	if f.VendorID != 0 {
		q = q.Where("vendor_id = ?", f.VendorID)
	}
	if f.ActiveOnly {
		q = q.Where("active = ?", true)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	q = q.Order("created_at DESC").Order("id DESC")

	if kind == models.KindDigital {
		return findAs[models.DigitalProduct](q)
	}
	return findAs[models.PhysicalProduct](q)
}

func findAs[T any](q *gorm.DB) ([]models.Product, error) {
	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]models.Product, len(rows))
	for i := range rows {
		out[i] = any(&rows[i]).(models.Product)
	}
	return out, nil
}

// SlugsLike returns slugs of kind equal to base or starting with "base-",
// optionally restricted to one category.
func (r *ProductRepository) SlugsLike(ctx context.Context, kind models.Kind, base string, categoryID *uint) ([]string, error) {
	q := r.model(ctx, kind).Where("slug = ? OR slug LIKE ?", base, base+"-%")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	var slugs []string
	err := q.Pluck("slug", &slugs).Error
	return slugs, translate(err)
}

// IDsInCategories returns ids of kind filed under any of categoryIDs.
func (r *ProductRepository) IDsInCategories(ctx context.Context, kind models.Kind, categoryIDs []uint) ([]uint, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.model(ctx, kind).Where("category_id IN ?", categoryIDs).Pluck("id", &ids).Error
	return ids, translate(err)
}

func (r *ProductRepository) DeleteIDs(ctx context.Context, kind models.Kind, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Where("id IN ?", ids).Delete(models.NewProduct(kind)).Error)
}

func (r *ProductRepository) Count(ctx context.Context, kind models.Kind) (int64, error) {
	var n int64
	err := r.model(ctx, kind).Count(&n).Error
	return n, translate(err)
}
