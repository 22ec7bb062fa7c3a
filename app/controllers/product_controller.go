package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/resource"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 50

// ProductController serves one product kind; routes mount one per kind.
type ProductController struct {
	kind     models.Kind
	products *services.ProductService
}

func NewProductController(kind models.Kind, products *services.ProductService) *ProductController {
	return &ProductController{kind: kind, products: products}
}

type productRequest struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Description string           `json:"description"`
	Image       *string          `json:"image" validate:"nullable,max=255"`
	CategoryID  uint             `json:"category_id" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Stock       int              `json:"stock"`

	Dimensions *string          `json:"dimensions" validate:"nullable,max=100"`
	Weight     *decimal.Decimal `json:"weight"`

	OS           *string `json:"os" validate:"nullable,max=100"`
	Requirements *string `json:"requirements"`
}

type productPatchRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Image       *string          `json:"image"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Active      *bool            `json:"is_active"`

	Dimensions *string          `json:"dimensions"`
	Weight     *decimal.Decimal `json:"weight"`

	OS           *string `json:"os"`
	Requirements *string `json:"requirements"`
}

func productResource(p models.Product) resource.Map {
	b := p.Base()
	m := resource.Map{
		"id":          b.ID,
		"kind":        p.Kind(),
		"name":        b.Name,
		"slug":        b.Slug,
		"description": b.Description,
		"image":       b.Image,
		"vendor_id":   b.VendorID,
		"category_id": b.CategoryID,
		"price":       b.Price.StringFixed(2),
		"stock":       b.Stock,
		"in_stock":    b.InStock(),
		"is_active":   b.Active,
		"created_at":  b.CreatedAt,
		"updated_at":  b.UpdatedAt,
	}
	switch v := p.(type) {
	case *models.PhysicalProduct:
		m["dimensions"] = v.Dimensions
		m["weight"] = nil
		if v.Weight.Valid {
			m["weight"] = v.Weight.Decimal.StringFixed(2)
		}
	case *models.DigitalProduct:
		m["os"] = v.OS
		m["requirements"] = v.Requirements
	}
	return m
}

// Index handles GET /api/{kind}_products. Filters: category (with
// subtree=true to include descendants), vendor, active, limit, offset.
func (pc *ProductController) Index(c *ctx.Context) {
	category, ok := c.QueryUint("category")
	if !ok {
		return
	}
	vendor, ok := c.QueryUint("vendor")
	if !ok {
		return
	}

	opts := services.ListOptions{
		CategoryID:           category,
		IncludeSubcategories: c.QueryBool("subtree"),
		ActiveOnly:           c.QueryBool("active"),
		Limit:                c.QueryInt("limit", defaultPageSize),
		Offset:               c.QueryInt("offset", 0),
	}
	if vendor != nil {
		opts.VendorID = *vendor
	}

	products, err := pc.products.List(c.Context(), pc.kind, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Page(resource.Collection(products, productResource), opts.Limit, opts.Offset))
}

// Store handles POST /api/{kind}_products. The authenticated user is the
// vendor.
func (pc *ProductController) Store(c *ctx.Context) {
	var req productRequest
	if !c.BindJSON(&req) {
		return
	}

	in := services.ProductInput{
		Kind:         pc.kind,
		Name:         req.Name,
		Description:  req.Description,
		Image:        req.Image,
		VendorID:     middleware.UserID(c.Context()),
		CategoryID:   req.CategoryID,
		Price:        *req.Price,
		Stock:        req.Stock,
		Dimensions:   req.Dimensions,
		OS:           req.OS,
		Requirements: req.Requirements,
	}
	if req.Weight != nil {
		in.Weight = decimal.NewNullDecimal(*req.Weight)
	}

	p, err := pc.products.Create(c.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(productResource(p))
}

// Show handles GET /api/{kind}_products/{id}.
func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	p, err := pc.products.Get(c.Context(), pc.kind, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(productResource(p))
}

// Update handles PATCH /api/{kind}_products/{id}. Only the owning vendor
// may change a product; the slug never changes.
func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := pc.ownedProduct(c)
	if !ok {
		return
	}
	var req productPatchRequest
	if !c.BindJSON(&req) {
		return
	}

	p, err := pc.products.Update(c.Context(), pc.kind, id, services.ProductPatch{
		Name:         req.Name,
		Description:  req.Description,
		Image:        req.Image,
		Price:        req.Price,
		Stock:        req.Stock,
		Active:       req.Active,
		Dimensions:   req.Dimensions,
		Weight:       req.Weight,
		OS:           req.OS,
		Requirements: req.Requirements,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(productResource(p))
}

// Destroy handles DELETE /api/{kind}_products/{id}.
func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := pc.ownedProduct(c)
	if !ok {
		return
	}
	if err := pc.products.Delete(c.Context(), pc.kind, id); err != nil {
		respondError(c, err)
		return
	}
	c.NoContent()
}

func (pc *ProductController) ownedProduct(c *ctx.Context) (uint, bool) {
	id, ok := c.ParamUint("id")
	if !ok {
		return 0, false
	}
	p, err := pc.products.Get(c.Context(), pc.kind, id)
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	if p.Base().VendorID != middleware.UserID(c.Context()) {
		c.Error(http.StatusForbidden, "product belongs to another vendor")
		return 0, false
	}
	return id, true
}
