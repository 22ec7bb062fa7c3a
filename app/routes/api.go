package routes

import (
	"github.com/shashiranjanraj/bazaar/app/controllers"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/router"
	"gorm.io/gorm"
)

// Deps carries what the API handlers need.
type Deps struct {
	DB        *gorm.DB
	Cache     services.Cacher
	SlugScope services.SlugScope
}

// RegisterAPI mounts every /api route. Reads are public; writes need a
// Bearer token.
func RegisterAPI(r *router.Router, d Deps) {
	users := services.NewUserService(d.DB)
	categories := services.NewCategoryService(d.DB, d.Cache)
	products := services.NewProductService(d.DB,
		services.WithSlugAllocator(services.StoreSlugAllocator{Scope: d.SlugScope}),
		services.WithProductCache(d.Cache),
	)
	orders := services.NewOrderService(d.DB)

	authc := controllers.NewAuthController(users)
	catc := controllers.NewCategoryController(categories, users)
	orderc := controllers.NewOrderController(orders)

	api := r.Group("/api")
	api.Post("/register", "auth.register", ctx.Wrap(authc.Register))
	api.Post("/login", "auth.login", ctx.Wrap(authc.Login))

	api.Get("/categories", "categories.index", ctx.Wrap(catc.Index))
	api.Get("/categories/tree", "categories.tree", ctx.Wrap(catc.Tree))
	api.Get("/categories/{id}", "categories.show", ctx.Wrap(catc.Show))

	protected := api.Group("", middleware.Auth)
	protected.Get("/me", "auth.me", ctx.Wrap(authc.Me))
	protected.Post("/vendors", "vendors.store", ctx.Wrap(authc.BecomeVendor))

	protected.Post("/categories", "categories.store", ctx.Wrap(catc.Store))
	protected.Patch("/categories/{id}/parent", "categories.reparent", ctx.Wrap(catc.Reparent))
	protected.Delete("/categories/{id}", "categories.destroy", ctx.Wrap(catc.Destroy))

	for _, kind := range models.Kinds {
		pc := controllers.NewProductController(kind, products)
		base := "/" + string(kind) + "_products"
		name := string(kind) + "_products"

		api.Get(base, name+".index", ctx.Wrap(pc.Index))
		api.Get(base+"/{id}", name+".show", ctx.Wrap(pc.Show))
		protected.Post(base, name+".store", ctx.Wrap(pc.Store))
		protected.Patch(base+"/{id}", name+".update", ctx.Wrap(pc.Update))
		protected.Delete(base+"/{id}", name+".destroy", ctx.Wrap(pc.Destroy))
	}

	protected.Post("/orders", "orders.store", ctx.Wrap(orderc.Store))
	protected.Get("/orders", "orders.index", ctx.Wrap(orderc.Index))
	protected.Get("/orders/{id}", "orders.show", ctx.Wrap(orderc.Show))
	protected.Post("/orders/{id}/items", "orders.items.store", ctx.Wrap(orderc.AddItem))
	protected.Patch("/orders/{id}/status", "orders.status", ctx.Wrap(orderc.SetStatus))
	protected.Delete("/orders/{id}", "orders.destroy", ctx.Wrap(orderc.Destroy))
}
