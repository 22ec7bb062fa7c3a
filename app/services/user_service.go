package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"gorm.io/gorm"
)

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Age      *int
}

// VendorInput is the payload for attaching a vendor profile.
type VendorInput struct {
	Name        string
	Description *string
	Image       *string
}

// UserService handles accounts, logins and vendor profiles.
type UserService struct {
	db    *gorm.DB
	users *repositories.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, users: repositories.NewUserRepository(db)}
}

// Register hashes the password and creates the user.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	username := strings.TrimSpace(in.Username)
	switch {
	case username == "":
		return models.User{}, invalid("username", "is required")
	case utf8.RuneCountInString(username) > 150:
		return models.User{}, invalid("username", "must not exceed 150 characters")
	case len(in.Password) < 6:
		return models.User{}, invalid("password", "must be at least 6 characters")
	case in.Age != nil && *in.Age < 0:
		return models.User{}, invalid("age", "cannot be negative")
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return models.User{}, invalid("email", "must be a valid email address")
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{Username: username, Email: in.Email, Password: hash, Age: in.Age}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.User{}, invalid("username", "is already taken")
		}
		return models.User{}, err
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login checks credentials and returns a signed token. Unknown users and
// wrong passwords are indistinguishable.
func (s *UserService) Login(ctx context.Context, username, password string) (string, models.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, err
	}
	if !auth.CheckPassword(user.Password, password) {
		return "", models.User{}, ErrInvalidCredentials
	}

	role := auth.RoleCustomer
	if user.Vendor != nil {
		role = auth.RoleVendor
	}
	token, err := auth.GenerateToken(user.ID, role)
	if err != nil {
		return "", models.User{}, err
	}
	return token, user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return user, notFound("user", id)
	}
	return user, err
}

// BecomeVendor attaches a vendor profile to userID. A user has at most one.
func (s *UserService) BecomeVendor(ctx context.Context, userID uint, in VendorInput) (models.Vendor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Vendor{}, invalid("name", "is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return models.Vendor{}, invalid("name", "must not exceed 100 characters")
	}

	vendor := models.Vendor{UserID: userID, Name: name, Description: in.Description, Image: in.Image}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		if _, err := users.FindByID(ctx, userID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return notFound("user", userID)
			}
			return err
		}
		if err := users.CreateVendor(ctx, &vendor); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return invalid("user_id", "already has a vendor profile")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.Vendor{}, err
	}

	logger.WithCtx(ctx).Info("vendor profile created", "user_id", userID, "vendor_id", vendor.ID)
	return vendor, nil
}
