package services

import (
	"testing"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	u := f.user()

	o, err := f.orders.CreateOrder(f.ctx, u.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Len(t, o.ID, 36)
	assert.Zero(t, o.ItemCount())
	assert.True(t, o.Total().IsZero())

	_, err = f.orders.CreateOrder(f.ctx, u.ID, "shipped")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)

	_, err = f.orders.CreateOrder(f.ctx, 9999, models.StatusConfirmed)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user", nf.Entity)

	other, err := f.orders.CreateOrder(f.ctx, u.ID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.NotEqual(t, o.ID, other.ID)
}

func TestAddLineItemQuantity(t *testing.T) {
	f := newFixture(t)
	v := f.vendor()
	home := f.category("Home", nil)
	p := f.product(models.KindPhysical, "Mug", "7.25", v.ID, home.ID)
	o, err := f.orders.CreateOrder(f.ctx, v.ID, "")
	require.NoError(t, err)

	_, err = f.orders.AddLineItem(f.ctx, o.ID, models.KindPhysical, p.Base().ID, 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	line, err := f.orders.AddLineItem(f.ctx, o.ID, models.KindPhysical, p.Base().ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Mug", line.Name)
	assert.True(t, line.Subtotal.Equal(decimal.RequireFromString("7.25")))

	// the same product may be added on a second line
	_, err = f.orders.AddLineItem(f.ctx, o.ID, models.KindPhysical, p.Base().ID, 3)
	require.NoError(t, err)

	got, err := f.orders.GetOrder(f.ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ItemCount())
	assert.True(t, got.Total().Equal(decimal.NewFromInt(29)), got.Total().String())
}

func TestAddLineItemMissingReferences(t *testing.T) {
	f := newFixture(t)
	v := f.vendor()
	home := f.category("Home", nil)
	p := f.product(models.KindDigital, "Font", "5", v.ID, home.ID)
	o, err := f.orders.CreateOrder(f.ctx, v.ID, "")
	require.NoError(t, err)

	var nf *NotFoundError
	_, err = f.orders.AddLineItem(f.ctx, "no-such-order", models.KindDigital, p.Base().ID, 1)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "order", nf.Entity)

	// a digital id does not resolve in the physical table
	_, err = f.orders.AddLineItem(f.ctx, o.ID, models.KindPhysical, p.Base().ID, 1)
	require.ErrorAs(t, err, &nf)
}

func TestOrderTotalFollowsCurrentPrices(t *testing.T) {
	f := newFixture(t)
	v := f.vendor()
	home := f.category("Home", nil)
	phys := f.product(models.KindPhysical, "Kettle", "10.00", v.ID, home.ID)
	dig := f.product(models.KindDigital, "Recipes", "2.50", v.ID, home.ID)

	o, err := f.orders.CreateOrder(f.ctx, v.ID, "")
	require.NoError(t, err)
	_, err = f.orders.AddLineItem(f.ctx, o.ID, models.KindPhysical, phys.Base().ID, 2)
	require.NoError(t, err)
	_, err = f.orders.AddLineItem(f.ctx, o.ID, models.KindDigital, dig.Base().ID, 2)
	require.NoError(t, err)

	total, err := f.orders.Total(f.ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("25")), total.String())

	price := decimal.RequireFromString("15")
	_, err = f.products.Update(f.ctx, models.KindPhysical, phys.Base().ID, ProductPatch{Price: &price})
	require.NoError(t, err)

	total, err = f.orders.Total(f.ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("35")), total.String())

	got, err := f.orders.GetOrder(f.ctx, o.ID)
	require.NoError(t, err)
	lines := got.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, models.KindPhysical, lines[0].Kind)
	assert.Equal(t, models.KindDigital, lines[1].Kind)
}

func TestSetStatusAndDelete(t *testing.T) {
	f := newFixture(t)
	u := f.user()
	o, err := f.orders.CreateOrder(f.ctx, u.ID, models.StatusCancelled)
	require.NoError(t, err)

	got, err := f.orders.SetStatus(f.ctx, o.ID, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)

	_, err = f.orders.SetStatus(f.ctx, o.ID, "lost")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	list, err := f.orders.ListOrders(f.ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.orders.DeleteOrder(f.ctx, o.ID))
	var nf *NotFoundError
	_, err = f.orders.GetOrder(f.ctx, o.ID)
	require.ErrorAs(t, err, &nf)
	require.ErrorAs(t, f.orders.DeleteOrder(f.ctx, o.ID), &nf)
	_, err = f.orders.SetStatus(f.ctx, o.ID, models.StatusConfirmed)
	require.ErrorAs(t, err, &nf)
}
