package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shashiranjanraj/bazaar/app/routes"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/internal/kernel"
	"github.com/shashiranjanraj/bazaar/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type api struct {
	t *testing.T
	h http.Handler
}

func newAPI(t *testing.T) *api {
	db := testkit.DB(t)
	k := kernel.NewHTTPKernel(routes.Deps{DB: db, SlugScope: services.SlugScopeKind})
	return &api{t: t, h: k.Handler()}
}

func (a *api) do(method, url string, body any, token string) testkit.Response {
	a.t.Helper()
	return testkit.Do(a.t, a.h, method, url, body, token)
}

// login registers username and returns a bearer token for it.
func (a *api) login(username string) string {
	a.t.Helper()
	res := a.do(http.MethodPost, "/api/register", map[string]any{
		"username": username, "email": username + "@example.com", "password": "password123",
	}, "")
	require.Equal(a.t, http.StatusCreated, res.Code, string(res.Body))

	res = a.do(http.MethodPost, "/api/login", map[string]any{"username": username, "password": "password123"}, "")
	require.Equal(a.t, http.StatusOK, res.Code, string(res.Body))
	var out struct {
		Token string `json:"token"`
	}
	res.Data(a.t, &out)
	require.NotEmpty(a.t, out.Token)
	return out.Token
}

func (a *api) vendor(username string) string {
	a.t.Helper()
	token := a.login(username)
	res := a.do(http.MethodPost, "/api/vendors", map[string]any{"name": username + " Inc"}, token)
	require.Equal(a.t, http.StatusCreated, res.Code, string(res.Body))
	return token
}

func (a *api) category(token, name string, parent *uint) uint {
	a.t.Helper()
	res := a.do(http.MethodPost, "/api/categories", map[string]any{"name": name, "parent_id": parent}, token)
	require.Equal(a.t, http.StatusCreated, res.Code, string(res.Body))
	var out struct {
		ID uint `json:"id"`
	}
	res.Data(a.t, &out)
	return out.ID
}

type productOut struct {
	ID    uint   `json:"id"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

func (a *api) product(token, kind string, body map[string]any) productOut {
	a.t.Helper()
	res := a.do(http.MethodPost, "/api/"+kind+"_products", body, token)
	require.Equal(a.t, http.StatusCreated, res.Code, string(res.Body))
	var out productOut
	res.Data(a.t, &out)
	return out
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)

	res := a.do(http.MethodGet, "/api/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = a.do(http.MethodGet, "/api/me", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	token := a.login("alice")
	res = a.do(http.MethodGet, "/api/me", nil, token)
	require.Equal(t, http.StatusOK, res.Code)
	var me struct {
		Username string `json:"username"`
		IsVendor bool   `json:"is_vendor"`
	}
	res.Data(t, &me)
	assert.Equal(t, "alice", me.Username)
	assert.False(t, me.IsVendor)

	res = a.do(http.MethodPost, "/api/login", map[string]any{"username": "alice", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = a.do(http.MethodPost, "/api/register", map[string]any{"username": "alice", "password": "password123"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Contains(t, res.Envelope(t).Errors, "username")
}

func TestProductEndpoints(t *testing.T) {
	a := newAPI(t)
	vendor := a.vendor("acme")
	home := a.category(vendor, "Home", nil)

	res := a.do(http.MethodPost, "/api/physical_products", map[string]any{
		"name": "Lamp", "category_id": home, "price": "10",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = a.do(http.MethodPost, "/api/physical_products", map[string]any{
		"name": "Lamp", "category_id": home, "price": "-0.01",
	}, vendor)
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Equal(t, "Price cannot be negative", res.Envelope(t).Errors["price"])

	res = a.do(http.MethodPost, "/api/physical_products", map[string]any{
		"name": "Lamp", "category_id": home,
	}, vendor)
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Contains(t, res.Envelope(t).Errors, "price")

	lamp := a.product(vendor, "physical", map[string]any{
		"name": "Super Widget", "category_id": home, "price": "10", "weight": "1.5", "dimensions": "10x10x10",
	})
	assert.Equal(t, "super-widget", lamp.Slug)
	assert.Equal(t, "10.00", lamp.Price)

	again := a.product(vendor, "physical", map[string]any{
		"name": "Super Widget", "category_id": home, "price": 0,
	})
	assert.Equal(t, "super-widget-1", again.Slug)

	res = a.do(http.MethodGet, fmt.Sprintf("/api/physical_products/%d", lamp.ID), nil, "")
	require.Equal(t, http.StatusOK, res.Code)

	res = a.do(http.MethodGet, fmt.Sprintf("/api/digital_products/%d", lamp.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = a.do(http.MethodGet, "/api/physical_products?limit=10", nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	var page struct {
		Items []productOut `json:"items"`
		Count int          `json:"count"`
	}
	res.Data(t, &page)
	require.Equal(t, 2, page.Count)
	assert.Equal(t, again.ID, page.Items[0].ID)

	res = a.do(http.MethodGet, "/api/physical_products?category=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = a.do(http.MethodPatch, fmt.Sprintf("/api/physical_products/%d", lamp.ID), map[string]any{"name": "Renamed"}, vendor)
	require.Equal(t, http.StatusOK, res.Code)
	var renamed productOut
	res.Data(t, &renamed)
	assert.Equal(t, "Renamed", renamed.Name)
	assert.Equal(t, "super-widget", renamed.Slug)

	rival := a.vendor("rival")
	res = a.do(http.MethodPatch, fmt.Sprintf("/api/physical_products/%d", lamp.ID), map[string]any{"price": "1"}, rival)
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = a.do(http.MethodDelete, fmt.Sprintf("/api/physical_products/%d", lamp.ID), nil, rival)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = a.do(http.MethodDelete, fmt.Sprintf("/api/physical_products/%d", lamp.ID), nil, vendor)
	assert.Equal(t, http.StatusNoContent, res.Code)
}

func TestNonVendorCannotListProducts(t *testing.T) {
	a := newAPI(t)
	vendor := a.vendor("acme")
	home := a.category(vendor, "Home", nil)
	shopper := a.login("shopper")

	res := a.do(http.MethodPost, "/api/digital_products", map[string]any{
		"name": "App", "category_id": home, "price": "1",
	}, shopper)
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestCategoryEndpoints(t *testing.T) {
	a := newAPI(t)
	token := a.vendor("curator")

	electronics := a.category(token, "Electronics", nil)
	phones := a.category(token, "Phones", &electronics)
	a.category(token, "Audio", &electronics)

	res := a.do(http.MethodPost, "/api/categories", map[string]any{"name": "Phones"}, token)
	assert.Equal(t, http.StatusConflict, res.Code)

	res = a.do(http.MethodGet, fmt.Sprintf("/api/categories?parent=%d", electronics), nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	var children []struct {
		Name string `json:"name"`
	}
	res.Data(t, &children)
	require.Len(t, children, 2)
	assert.Equal(t, "Audio", children[0].Name)
	assert.Equal(t, "Phones", children[1].Name)

	res = a.do(http.MethodGet, "/api/categories?parent=999", nil, "")
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = a.do(http.MethodPatch, fmt.Sprintf("/api/categories/%d/parent", electronics), map[string]any{"parent_id": phones}, token)
	assert.Equal(t, http.StatusConflict, res.Code)

	res = a.do(http.MethodGet, "/api/categories/tree", nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	var tree []services.NestedCategory
	res.Data(t, &tree)
	require.Len(t, tree, 1)
	assert.Len(t, tree[0].Children, 2)

	res = a.do(http.MethodDelete, fmt.Sprintf("/api/categories/%d", electronics), nil, token)
	require.Equal(t, http.StatusOK, res.Code)
	var deleted services.DeleteResult
	res.Data(t, &deleted)
	assert.Equal(t, 3, deleted.Categories)

	res = a.do(http.MethodGet, fmt.Sprintf("/api/categories/%d", phones), nil, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestCategoryWritesRequireVendor(t *testing.T) {
	a := newAPI(t)
	vendor := a.vendor("curator")
	home := a.category(vendor, "Home", nil)
	kitchen := a.category(vendor, "Kitchen", &home)
	shopper := a.login("shopper")

	res := a.do(http.MethodPost, "/api/categories", map[string]any{"name": "Garden"}, shopper)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = a.do(http.MethodPatch, fmt.Sprintf("/api/categories/%d/parent", kitchen), map[string]any{"parent_id": nil}, shopper)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = a.do(http.MethodDelete, fmt.Sprintf("/api/categories/%d", home), nil, shopper)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = a.do(http.MethodGet, fmt.Sprintf("/api/categories/%d", kitchen), nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	var got struct {
		ParentID *uint `json:"parent_id"`
	}
	res.Data(t, &got)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, home, *got.ParentID)
}

func TestOrderEndpoints(t *testing.T) {
	a := newAPI(t)
	vendor := a.vendor("acme")
	home := a.category(vendor, "Home", nil)
	kettle := a.product(vendor, "physical", map[string]any{"name": "Kettle", "category_id": home, "price": "12.50"})
	ebook := a.product(vendor, "digital", map[string]any{"name": "Tea Guide", "category_id": home, "price": "3", "os": "Web"})

	buyer := a.login("buyer")
	res := a.do(http.MethodPost, "/api/orders", map[string]any{}, buyer)
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	var order struct {
		ID        string `json:"order_id"`
		Status    string `json:"status"`
		Total     string `json:"total"`
		ItemCount int    `json:"item_count"`
	}
	res.Data(t, &order)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "0.00", order.Total)

	items := "/api/orders/" + order.ID + "/items"
	res = a.do(http.MethodPost, items, map[string]any{"kind": "physical", "product_id": kettle.ID, "quantity": 0}, buyer)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)

	res = a.do(http.MethodPost, items, map[string]any{"kind": "physical", "product_id": kettle.ID, "quantity": 2}, buyer)
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	res = a.do(http.MethodPost, items, map[string]any{"kind": "digital", "product_id": ebook.ID, "quantity": 1}, buyer)
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	res = a.do(http.MethodPost, items, map[string]any{"kind": "digital", "product_id": 999, "quantity": 1}, buyer)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = a.do(http.MethodGet, "/api/orders/"+order.ID, nil, buyer)
	require.Equal(t, http.StatusOK, res.Code)
	res.Data(t, &order)
	assert.Equal(t, 2, order.ItemCount)
	assert.Equal(t, "28.00", order.Total)

	// price changes flow into existing orders
	res = a.do(http.MethodPatch, fmt.Sprintf("/api/physical_products/%d", kettle.ID), map[string]any{"price": "20"}, vendor)
	require.Equal(t, http.StatusOK, res.Code)
	res = a.do(http.MethodGet, "/api/orders/"+order.ID, nil, buyer)
	res.Data(t, &order)
	assert.Equal(t, "43.00", order.Total)

	res = a.do(http.MethodGet, "/api/orders/"+order.ID, nil, vendor)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = a.do(http.MethodPatch, "/api/orders/"+order.ID+"/status", map[string]any{"status": "shipped"}, buyer)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	res = a.do(http.MethodPatch, "/api/orders/"+order.ID+"/status", map[string]any{"status": "confirmed"}, buyer)
	require.Equal(t, http.StatusOK, res.Code)
	res.Data(t, &order)
	assert.Equal(t, "confirmed", order.Status)

	res = a.do(http.MethodGet, "/api/orders", nil, buyer)
	require.Equal(t, http.StatusOK, res.Code)
	var list []struct {
		ID string `json:"order_id"`
	}
	res.Data(t, &list)
	require.Len(t, list, 1)

	res = a.do(http.MethodDelete, "/api/orders/"+order.ID, nil, buyer)
	assert.Equal(t, http.StatusNoContent, res.Code)
	res = a.do(http.MethodGet, "/api/orders/"+order.ID, nil, buyer)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestKernelFallbacks(t *testing.T) {
	a := newAPI(t)

	res := a.do(http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, http.StatusNotFound, res.Envelope(t).Status)

	res = a.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, res.Code)

	res = a.do(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Body), "bazaar_http_requests_total")
}
