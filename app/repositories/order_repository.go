package repositories

import (
	"context"
	"time"

	"github.com/shashiranjanraj/bazaar/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository handles orders and their line items.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error)
}

// FindByID loads the order with both item collections and the products they
// reference as they are now.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := r.withItems(ctx).Where("id = ?", id).First(&o).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// ListByUser returns a user's orders newest first. userID 0 lists everyone's.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Order, error) {
	q := r.withItems(ctx)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var orders []models.Order
	err := q.Order("created_at DESC").Order("id").Find(&orders).Error
	return orders, translate(err)
}

func (r *OrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("PhysicalItems", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("PhysicalItems.Product").
		Preload("DigitalItems", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("DigitalItems.Product")
}

func (r *OrderRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&n).Error
	return n > 0, translate(err)
}

func (r *OrderRepository) AddPhysicalItem(ctx context.Context, item *models.PhysicalOrderItem) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error)
}

func (r *OrderRepository) AddDigitalItem(ctx context.Context, item *models.DigitalOrderItem) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error)
}

// Touch bumps updated_at on the order after an item change.
func (r *OrderRepository) Touch(ctx context.Context, id string) error {
	return translate(r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Update("updated_at", time.Now()).Error)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the order and its items.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&models.PhysicalOrderItem{}).Error; err != nil {
		return translate(err)
	}
	if err := db.Where("order_id = ?", id).Delete(&models.DigitalOrderItem{}).Error; err != nil {
		return translate(err)
	}
	res := db.Where("id = ?", id).Delete(&models.Order{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItemsForProducts removes every line item of kind that references
// one of productIDs.
func (r *OrderRepository) DeleteItemsForProducts(ctx context.Context, kind models.Kind, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	var item any = &models.PhysicalOrderItem{}
	if kind == models.KindDigital {
		item = &models.DigitalOrderItem{}
	}
	return translate(r.db.WithContext(ctx).Where("product_id IN ?", productIDs).Delete(item).Error)
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, translate(err)
}
