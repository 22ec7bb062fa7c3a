package controllers

import (
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/resource"
)

// CategoryController serves the category tree. Writes are limited to
// vendors.
type CategoryController struct {
	categories *services.CategoryService
	users      *services.UserService
}

func NewCategoryController(categories *services.CategoryService, users *services.UserService) *CategoryController {
	return &CategoryController{categories: categories, users: users}
}

// requireVendor writes 403 and reports false unless the caller has a
// vendor profile.
func (cc *CategoryController) requireVendor(c *ctx.Context) bool {
	user, err := cc.users.Get(c.Context(), middleware.UserID(c.Context()))
	if err != nil {
		respondError(c, err)
		return false
	}
	if user.Vendor == nil {
		respondError(c, services.ErrNotVendor)
		return false
	}
	return true
}

type categoryRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	ParentID    *uint   `json:"parent_id"`
	Description *string `json:"description"`
}

type reparentRequest struct {
	ParentID *uint `json:"parent_id"`
}

func categoryResource(cat models.Category) resource.Map {
	return resource.Map{
		"id":          cat.ID,
		"name":        cat.Name,
		"parent_id":   cat.ParentID,
		"description": cat.Description,
		"created_at":  cat.CreatedAt,
		"updated_at":  cat.UpdatedAt,
	}
}

// Index handles GET /api/categories?parent={id}: the direct children of
// parent, or the roots when parent is absent, ordered by name.
func (cc *CategoryController) Index(c *ctx.Context) {
	parent, ok := c.QueryUint("parent")
	if !ok {
		return
	}
	if parent != nil {
		if _, err := cc.categories.Get(c.Context(), *parent); err != nil {
			respondError(c, err)
			return
		}
	}

	var out []models.Category
	for cat, err := range cc.categories.ChildrenOf(c.Context(), parent) {
		if err != nil {
			respondError(c, err)
			return
		}
		out = append(out, cat)
	}
	c.Success(resource.Collection(out, categoryResource))
}

// Tree handles GET /api/categories/tree.
func (cc *CategoryController) Tree(c *ctx.Context) {
	tree, err := cc.categories.Tree(c.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(tree.Nested())
}

// Show handles GET /api/categories/{id} and includes the ancestor path.
func (cc *CategoryController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	tree, err := cc.categories.Tree(c.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	node, found := tree.Node(id)
	if !found {
		c.NotFound("category not found")
		return
	}

	m := categoryResource(node.Category)
	m["ancestors"] = tree.Ancestors(id)
	m["children"] = resource.Collection(tree.Children(id), categoryResource)
	c.Success(m)
}

// Store handles POST /api/categories.
func (cc *CategoryController) Store(c *ctx.Context) {
	if !cc.requireVendor(c) {
		return
	}
	var req categoryRequest
	if !c.BindJSON(&req) {
		return
	}
	cat, err := cc.categories.Create(c.Context(), services.CategoryInput{
		Name:        req.Name,
		ParentID:    req.ParentID,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(categoryResource(cat))
}

// Reparent handles PATCH /api/categories/{id}/parent. A null parent_id
// moves the category to the top level.
func (cc *CategoryController) Reparent(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok || !cc.requireVendor(c) {
		return
	}
	var req reparentRequest
	if !c.BindJSON(&req) {
		return
	}
	cat, err := cc.categories.Reparent(c.Context(), id, req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(categoryResource(cat))
}

// Destroy handles DELETE /api/categories/{id}, cascading to descendants
// and their products.
func (cc *CategoryController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok || !cc.requireVendor(c) {
		return
	}
	res, err := cc.categories.Delete(c.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(res)
}
