package controllers

import (
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/resource"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

type orderRequest struct {
	Status string `json:"status" validate:"nullable,in=pending,confirmed,cancelled"`
}

type lineItemRequest struct {
	Kind      string `json:"kind"       validate:"required,in=physical,digital"`
	ProductID uint   `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,gte=1"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,in=pending,confirmed,cancelled"`
}

func lineResource(l models.Line) resource.Map {
	return resource.Map{
		"id":         l.ID,
		"kind":       l.Kind,
		"product_id": l.ProductID,
		"name":       l.Name,
		"unit_price": l.UnitPrice.StringFixed(2),
		"quantity":   l.Quantity,
		"subtotal":   l.Subtotal.StringFixed(2),
	}
}

func orderResource(o models.Order) resource.Map {
	return resource.Map{
		"order_id":   o.ID,
		"user_id":    o.UserID,
		"status":     o.Status,
		"created_at": o.CreatedAt,
		"updated_at": o.UpdatedAt,
		"items":      resource.Collection(o.Lines(), lineResource),
		"item_count": o.ItemCount(),
		"total":      o.Total().StringFixed(2),
	}
}

// Store handles POST /api/orders for the authenticated user.
func (oc *OrderController) Store(c *ctx.Context) {
	var req orderRequest
	if !c.BindJSON(&req) {
		return
	}
	o, err := oc.orders.CreateOrder(c.Context(), middleware.UserID(c.Context()), models.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(orderResource(*o))
}

// Index handles GET /api/orders: the caller's orders, newest first.
func (oc *OrderController) Index(c *ctx.Context) {
	orders, err := oc.orders.ListOrders(c.Context(), middleware.UserID(c.Context()), c.QueryInt("limit", defaultPageSize))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Collection(orders, orderResource))
}

// Show handles GET /api/orders/{id}. Totals reflect current prices.
func (oc *OrderController) Show(c *ctx.Context) {
	o, ok := oc.owned(c)
	if !ok {
		return
	}
	c.Success(orderResource(*o))
}

// AddItem handles POST /api/orders/{id}/items.
func (oc *OrderController) AddItem(c *ctx.Context) {
	o, ok := oc.owned(c)
	if !ok {
		return
	}
	var req lineItemRequest
	if !c.BindJSON(&req) {
		return
	}
	line, err := oc.orders.AddLineItem(c.Context(), o.ID, models.Kind(req.Kind), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(lineResource(line))
}

// SetStatus handles PATCH /api/orders/{id}/status.
func (oc *OrderController) SetStatus(c *ctx.Context) {
	o, ok := oc.owned(c)
	if !ok {
		return
	}
	var req statusRequest
	if !c.BindJSON(&req) {
		return
	}
	updated, err := oc.orders.SetStatus(c.Context(), o.ID, models.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(orderResource(*updated))
}

// Destroy handles DELETE /api/orders/{id}.
func (oc *OrderController) Destroy(c *ctx.Context) {
	o, ok := oc.owned(c)
	if !ok {
		return
	}
	if err := oc.orders.DeleteOrder(c.Context(), o.ID); err != nil {
		respondError(c, err)
		return
	}
	c.NoContent()
}

// owned loads the order named in the path. Another user's order is
// reported as missing.
func (oc *OrderController) owned(c *ctx.Context) (*models.Order, bool) {
	id := c.Param("id")
	o, err := oc.orders.GetOrder(c.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if o.UserID != middleware.UserID(c.Context()) {
		c.NotFound("order " + id + " not found")
		return nil, false
	}
	return o, true
}
