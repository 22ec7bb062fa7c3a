package repositories

import (
	"context"

	"github.com/shashiranjanraj/bazaar/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository handles database operations for User and Vendor.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// FindByUsername looks up a user by their unique username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Vendor").Where("username = ?", username).First(&user).Error
	return user, translate(err)
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Vendor").First(&user, id).Error
	return user, translate(err)
}

// Create persists a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error)
}

// All returns every user ordered by id.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, translate(err)
}

// Count returns the number of users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, translate(err)
}

// CreateVendor attaches a vendor profile. A second profile for the same
// user fails with ErrDuplicate.
func (r *UserRepository) CreateVendor(ctx context.Context, vendor *models.Vendor) error {
	return translate(r.db.WithContext(ctx).Create(vendor).Error)
}

// FindVendorByUserID returns the vendor profile owned by userID.
func (r *UserRepository) FindVendorByUserID(ctx context.Context, userID uint) (models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&vendor).Error
	return vendor, translate(err)
}

// Vendors returns every vendor profile ordered by id.
func (r *UserRepository) Vendors(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.WithContext(ctx).Order("id").Find(&vendors).Error
	return vendors, translate(err)
}

// WithoutVendor returns users that have no vendor profile yet.
func (r *UserRepository) WithoutVendor(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("id NOT IN (?)", r.db.Model(&models.Vendor{}).Select("user_id")).
		Order("id").
		Find(&users).Error
	return users, translate(err)
}
