package controllers

import (
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/resource"
)

type AuthController struct {
	users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,alpha_dash,max=150"`
	Email    string `json:"email"    validate:"nullable,email"`
	Password string `json:"password" validate:"required,min=6"`
	Age      *int   `json:"age"      validate:"nullable,gte=0"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type vendorRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
	Image       *string `json:"image" validate:"nullable,max=255"`
}

func userResource(u models.User) resource.Map {
	m := resource.Map{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"age":        u.Age,
		"is_vendor":  u.Vendor != nil,
		"created_at": u.CreatedAt,
	}
	if u.Vendor != nil {
		m["vendor"] = u.Vendor
	}
	return m
}

// Register handles POST /api/register.
func (a *AuthController) Register(c *ctx.Context) {
	var req registerRequest
	if !c.BindJSON(&req) {
		return
	}
	user, err := a.users.Register(c.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(userResource(user))
}

// Login handles POST /api/login.
func (a *AuthController) Login(c *ctx.Context) {
	var req loginRequest
	if !c.BindJSON(&req) {
		return
	}
	token, user, err := a.users.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Map{"token": token, "user": userResource(user)})
}

// Me handles GET /api/me.
func (a *AuthController) Me(c *ctx.Context) {
	user, err := a.users.Get(c.Context(), middleware.UserID(c.Context()))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(userResource(user))
}

// BecomeVendor handles POST /api/vendors for the authenticated user.
func (a *AuthController) BecomeVendor(c *ctx.Context) {
	var req vendorRequest
	if !c.BindJSON(&req) {
		return
	}
	vendor, err := a.users.BecomeVendor(c.Context(), middleware.UserID(c.Context()), services.VendorInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(vendor)
}
