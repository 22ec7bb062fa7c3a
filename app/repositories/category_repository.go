package repositories

import (
	"context"
	"iter"

	"github.com/shashiranjanraj/bazaar/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository handles database operations for Category.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (models.Category, error) {
	var c models.Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	return c, translate(err)
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (models.Category, error) {
	var c models.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error
	return c, translate(err)
}

func (r *CategoryRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name).Count(&n).Error
	return n > 0, translate(err)
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error)
}

// All loads every category; used to build the in-memory tree.
func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	err := r.db.WithContext(ctx).Order("name").Find(&cs).Error
	return cs, translate(err)
}

// Children streams the direct children of parentID (roots when nil) ordered
// by name. Rows are read lazily; each call to the returned sequence runs a
// fresh query, so it can be ranged over more than once.
func (r *CategoryRepository) Children(ctx context.Context, parentID *uint) iter.Seq2[models.Category, error] {
	return func(yield func(models.Category, error) bool) {
		q := r.db.WithContext(ctx).Model(&models.Category{})
		if parentID == nil {
			q = q.Where("parent_id IS NULL")
		} else {
			q = q.Where("parent_id = ?", *parentID)
		}

		rows, err := q.Order("name").Rows()
		if err != nil {
			yield(models.Category{}, translate(err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var c models.Category
			if err := r.db.ScanRows(rows, &c); err != nil {
				yield(models.Category{}, err)
				return
			}
			if !yield(c, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.Category{}, err)
		}
	}
}

func (r *CategoryRepository) UpdateParent(ctx context.Context, id uint, parentID *uint) error {
	res := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("parent_id", parentID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteIDs removes the given categories. Callers delete children first
// or pass a whole subtree at once.
func (r *CategoryRepository) DeleteIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Category{}).Error)
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&n).Error
	return n, translate(err)
}
