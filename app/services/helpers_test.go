package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/testkit"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var userSeq atomic.Int64

type fixture struct {
	t          *testing.T
	ctx        context.Context
	db         *gorm.DB
	users      *UserService
	categories *CategoryService
	products   *ProductService
	orders     *OrderService
}

func newFixture(t *testing.T, opts ...ProductOption) *fixture {
	t.Helper()
	db := testkit.DB(t)
	return &fixture{
		t:          t,
		ctx:        context.Background(),
		db:         db,
		users:      NewUserService(db),
		categories: NewCategoryService(db, nil),
		products:   NewProductService(db, opts...),
		orders:     NewOrderService(db),
	}
}

func (f *fixture) user() models.User {
	f.t.Helper()
	n := userSeq.Add(1)
	u, err := f.users.Register(f.ctx, RegisterInput{
		Username: fmt.Sprintf("user_%d", n),
		Email:    fmt.Sprintf("user_%d@example.com", n),
		Password: "password123",
	})
	require.NoError(f.t, err)
	return u
}

func (f *fixture) vendor() models.User {
	f.t.Helper()
	u := f.user()
	_, err := f.users.BecomeVendor(f.ctx, u.ID, VendorInput{Name: u.Username + " Inc"})
	require.NoError(f.t, err)
	return u
}

func (f *fixture) category(name string, parent *models.Category) models.Category {
	f.t.Helper()
	in := CategoryInput{Name: name}
	if parent != nil {
		in.ParentID = &parent.ID
	}
	c, err := f.categories.Create(f.ctx, in)
	require.NoError(f.t, err)
	return c
}

func (f *fixture) product(kind models.Kind, name, price string, vendorID, categoryID uint) models.Product {
	f.t.Helper()
	p, err := f.products.Create(f.ctx, ProductInput{
		Kind:       kind,
		Name:       name,
		VendorID:   vendorID,
		CategoryID: categoryID,
		Price:      decimal.RequireFromString(price),
		Stock:      5,
	})
	require.NoError(f.t, err)
	return p
}

func ids(cs []models.Category) []uint {
	out := make([]uint, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
