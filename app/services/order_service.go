package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService records orders and their line items. Totals are always
// computed from the products' current prices.
type OrderService struct {
	db     *gorm.DB
	orders *repositories.OrderRepository
	newID  func() string
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:     db,
		orders: repositories.NewOrderRepository(db),
		newID:  uuid.NewString,
	}
}

// CreateOrder opens an empty order for userID. An empty status means
// pending.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, status models.Status) (*models.Order, error) {
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return nil, invalid("status", "must be pending, confirmed or cancelled")
	}

	o := &models.Order{ID: s.newID(), UserID: userID, Status: status}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repositories.NewUserRepository(tx).FindByID(ctx, userID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return notFound("user", userID)
			}
			return err
		}
		return s.orders.WithTx(tx).Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	o.PhysicalItems = []models.PhysicalOrderItem{}
	o.DigitalItems = []models.DigitalOrderItem{}
	metrics.OrdersCreated.WithLabelValues(string(status)).Inc()
	logger.WithCtx(ctx).Info("order created", "order_id", o.ID, "user_id", userID, "status", status)
	return o, nil
}

// AddLineItem appends quantity units of a product to an order. The same
// product may appear on several lines.
func (s *OrderService) AddLineItem(ctx context.Context, orderID string, kind models.Kind, productID uint, quantity int) (models.Line, error) {
	if quantity < 1 {
		return models.Line{}, invalid("quantity", "must be at least 1")
	}
	if _, ok := models.ParseKind(string(kind)); !ok {
		return models.Line{}, invalid("kind", "must be physical or digital")
	}

	var line models.Line
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		ok, err := orders.Exists(ctx, orderID)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("order", orderID)
		}

		p, err := repositories.NewProductRepository(tx).FindByID(ctx, kind, productID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return notFound(string(kind)+" product", productID)
			}
			return err
		}

		var itemID uint
		switch p.(type) {
		case *models.PhysicalProduct:
			item := &models.PhysicalOrderItem{OrderID: orderID, ProductID: productID, Quantity: quantity}
			err = orders.AddPhysicalItem(ctx, item)
			itemID = item.ID
		case *models.DigitalProduct:
			item := &models.DigitalOrderItem{OrderID: orderID, ProductID: productID, Quantity: quantity}
			err = orders.AddDigitalItem(ctx, item)
			itemID = item.ID
		}
		if err != nil {
			return err
		}
		if err := orders.Touch(ctx, orderID); err != nil {
			return err
		}

		b := p.Base()
		line = models.Line{
			ID:        itemID,
			Kind:      kind,
			ProductID: productID,
			Name:      b.Name,
			UnitPrice: b.Price,
			Quantity:  quantity,
			Subtotal:  models.Subtotal(b.Price, quantity),
		}
		return nil
	})
	if err != nil {
		return models.Line{}, err
	}

	metrics.OrderItemsAdded.WithLabelValues(string(kind)).Inc()
	logger.WithCtx(ctx).Debug("order item added", "order_id", orderID, "kind", kind, "product_id", productID, "quantity", quantity)
	return line, nil
}

// GetOrder loads an order with its items and their current products.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound("order", id)
	}
	return o, err
}

// ListOrders returns userID's orders newest first; userID 0 lists all.
func (s *OrderService) ListOrders(ctx context.Context, userID uint, limit int) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID, limit)
}

// Total recomputes the order total from current product prices.
func (s *OrderService) Total(ctx context.Context, id string) (decimal.Decimal, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return o.Total(), nil
}

// SetStatus changes the order status. Any transition is allowed.
func (s *OrderService) SetStatus(ctx context.Context, id string, status models.Status) (*models.Order, error) {
	if !status.Valid() {
		return nil, invalid("status", "must be pending, confirmed or cancelled")
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("order", id)
		}
		return nil, err
	}
	logger.WithCtx(ctx).Info("order status changed", "order_id", id, "status", status)
	return s.GetOrder(ctx, id)
}

// DeleteOrder removes the order and its line items.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orders.WithTx(tx).Delete(ctx, id)
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound("order", id)
	}
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("order deleted", "order_id", id)
	return nil
}
