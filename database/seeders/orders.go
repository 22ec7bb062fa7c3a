package seeders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultOrderCount = 10
	seedPassword      = "password123"
)

var (
	seedCategories = []string{"Electronics", "Books", "Software", "Home", "Clothing"}
	adjectives     = []string{"Super", "Mega", "Smart", "Fast", "Pro"}
	physicalNouns  = []string{"Widget", "Gadget", "Tool", "Device"}
	digitalNouns   = []string{"App", "Plugin", "Ebook", "Course"}
	itemChance     = 0.7
)

func init() {
	Register("orders", func(ctx context.Context, db *gorm.DB, opts Options, out io.Writer) error {
		_, err := PopulateOrders(ctx, db, opts, out)
		return err
	})
}

// Options controls PopulateOrders. Zero values take the defaults, except
// Count: zero orders is a valid request.
type Options struct {
	Count    int // orders to create; callers wanting the default pass DefaultOrderCount
	Products int // catalog size when the catalog is empty, default 20
	Vendors  int // vendor profiles when the catalog is empty, default 1
	Slugs    services.SlugScope
	Rand     *rand.Rand
}

func (o Options) withDefaults() Options {
	if o.Products <= 0 {
		o.Products = 20
	}
	if o.Vendors <= 0 {
		o.Vendors = 1
	}
	if o.Slugs == "" {
		o.Slugs = services.SlugScopeKind
	}
	if o.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		o.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return o
}

// Report counts what a run created.
type Report struct {
	Users      int
	Categories int
	Vendors    int
	Products   int
	Orders     int
	Items      int
}

type seeder struct {
	db   *gorm.DB
	opts Options
	out  io.Writer
	rep  Report

	users      *services.UserService
	categories *services.CategoryService
	products   *services.ProductService
	orders     *services.OrderService
}

// PopulateOrders creates opts.Count random orders. It first makes sure a
// user exists and, when both product tables are empty, builds a small
// catalog. Every write goes through the services.
func PopulateOrders(ctx context.Context, db *gorm.DB, opts Options, out io.Writer) (Report, error) {
	if out == nil {
		out = io.Discard
	}
	if opts.Count < 0 {
		return Report{}, &services.ValidationError{Field: "count", Reason: "must not be negative"}
	}
	opts = opts.withDefaults()
	s := &seeder{
		db:         db,
		opts:       opts,
		out:        out,
		users:      services.NewUserService(db),
		categories: services.NewCategoryService(db, nil),
		products: services.NewProductService(db,
			services.WithSlugAllocator(services.StoreSlugAllocator{Scope: opts.Slugs})),
		orders: services.NewOrderService(db),
	}
	if err := s.run(ctx); err != nil {
		return s.rep, err
	}
	logger.WithCtx(ctx).Info("seed complete",
		"orders", s.rep.Orders, "items", s.rep.Items, "products", s.rep.Products, "users", s.rep.Users)
	return s.rep, nil
}

func (s *seeder) run(ctx context.Context) error {
	userRepo := repositories.NewUserRepository(s.db)
	n, err := userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(s.out, "No users found. Creating a test user...")
		if _, err := s.users.Register(ctx, services.RegisterInput{
			Username: "testuser", Email: "test@example.com", Password: seedPassword,
		}); err != nil {
			return fmt.Errorf("create test user: %w", err)
		}
		s.rep.Users++
	}

	fmt.Fprintf(s.out, "Creating %d random orders...\n", s.opts.Count)

	physical, digital, err := s.loadProducts(ctx)
	if err != nil {
		return err
	}
	if len(physical) == 0 && len(digital) == 0 {
		fmt.Fprintln(s.out, "No products found. Populating products internally...")
		if err := s.populateCatalog(ctx); err != nil {
			return err
		}
		if physical, digital, err = s.loadProducts(ctx); err != nil {
			return err
		}
	}

	users, err := userRepo.All(ctx)
	if err != nil {
		return err
	}
	for i := 0; i < s.opts.Count; i++ {
		if err := s.createOrder(ctx, users, physical, digital); err != nil {
			return err
		}
	}

	fmt.Fprintf(s.out, "Successfully created %d orders\n", s.opts.Count)
	return nil
}

func (s *seeder) loadProducts(ctx context.Context) (physical, digital []models.Product, err error) {
	repo := repositories.NewProductRepository(s.db)
	if physical, err = repo.List(ctx, models.KindPhysical, repositories.ProductFilter{}); err != nil {
		return nil, nil, err
	}
	if digital, err = repo.List(ctx, models.KindDigital, repositories.ProductFilter{}); err != nil {
		return nil, nil, err
	}
	return physical, digital, nil
}

func (s *seeder) createOrder(ctx context.Context, users []models.User, physical, digital []models.Product) error {
	r := s.opts.Rand
	user := users[r.IntN(len(users))]
	status := models.Statuses[r.IntN(len(models.Statuses))]

	order, err := s.orders.CreateOrder(ctx, user.ID, status)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	s.rep.Orders++

	hasItems := false
	add := func(pool []models.Product, quantity int) error {
		p := pool[r.IntN(len(pool))]
		if _, err := s.orders.AddLineItem(ctx, order.ID, p.Kind(), p.Base().ID, quantity); err != nil {
			return fmt.Errorf("add line item: %w", err)
		}
		s.rep.Items++
		hasItems = true
		return nil
	}

	if len(physical) > 0 && r.Float64() < itemChance {
		for n := 1 + r.IntN(3); n > 0; n-- {
			if err := add(physical, 1+r.IntN(5)); err != nil {
				return err
			}
		}
	}
	if len(digital) > 0 && r.Float64() < itemChance {
		for n := 1 + r.IntN(3); n > 0; n-- {
			if err := add(digital, 1+r.IntN(2)); err != nil {
				return err
			}
		}
	}
	if !hasItems {
		switch {
		case len(physical) > 0:
			err = add(physical, 1)
		case len(digital) > 0:
			err = add(digital, 1)
		default:
			fmt.Fprintf(s.out, "Order %s has no products available to add.\n", order.ID)
		}
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(s.out, "Created Order: %s for %s (%s)\n", order.ID, user.Username, order.Status)
	return nil
}

// populateCatalog creates the fixed categories, opts.Vendors vendor
// profiles and opts.Products random products.
func (s *seeder) populateCatalog(ctx context.Context) error {
	r := s.opts.Rand

	categories := make([]models.Category, 0, len(seedCategories))
	before, err := repositories.NewCategoryRepository(s.db).Count(ctx)
	if err != nil {
		return err
	}
	for _, name := range seedCategories {
		c, err := s.categories.GetOrCreate(ctx, name)
		if err != nil {
			return fmt.Errorf("category %s: %w", name, err)
		}
		categories = append(categories, c)
	}
	after, err := repositories.NewCategoryRepository(s.db).Count(ctx)
	if err != nil {
		return err
	}
	s.rep.Categories = int(after - before)

	vendors, err := s.ensureVendors(ctx)
	if err != nil {
		return err
	}

	for i := 0; i < s.opts.Products; i++ {
		kind := models.KindPhysical
		if r.IntN(2) == 1 {
			kind = models.KindDigital
		}

		nouns := physicalNouns
		if kind == models.KindDigital {
			nouns = digitalNouns
		}
		name := fmt.Sprintf("%s %s %d", pick(r, adjectives), pick(r, nouns), 1000+r.IntN(9000))

		in := services.ProductInput{
			Kind:        kind,
			Name:        name,
			Description: "Description for " + name,
			VendorID:    vendors[r.IntN(len(vendors))],
			CategoryID:  categories[r.IntN(len(categories))].ID,
			Price:       decimal.NewFromFloat(5 + r.Float64()*495).Round(2),
			Stock:       10 + r.IntN(91),
		}
		if kind == models.KindPhysical {
			dims := "10x10x10"
			in.Dimensions = &dims
			in.Weight = decimal.NewNullDecimal(decimal.NewFromFloat(0.5 + r.Float64()*4.5).Round(2))
		} else {
			os, req := "Web", "Browser"
			in.OS = &os
			in.Requirements = &req
		}

		if _, err := s.products.Create(ctx, in); err != nil {
			return fmt.Errorf("product %q: %w", name, err)
		}
		s.rep.Products++
	}

	fmt.Fprintf(s.out, "Internal product population complete: Created %d products.\n", s.opts.Products)
	return nil
}

// ensureVendors returns the user ids of opts.Vendors vendors. Existing
// vendors count first, then existing users without a profile are promoted,
// and only then are vendor_N users created.
func (s *seeder) ensureVendors(ctx context.Context) ([]uint, error) {
	repo := repositories.NewUserRepository(s.db)

	existing, err := repo.Vendors(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, s.opts.Vendors)
	for _, v := range existing {
		if len(ids) == s.opts.Vendors {
			return ids, nil
		}
		ids = append(ids, v.UserID)
	}

	candidates, err := repo.WithoutVendor(ctx)
	if err != nil {
		return nil, err
	}
	next := 1
	for len(ids) < s.opts.Vendors {
		var user models.User
		if len(candidates) > 0 {
			user, candidates = candidates[0], candidates[1:]
		} else {
			n := next
			next++
			user, err = s.users.Register(ctx, services.RegisterInput{
				Username: fmt.Sprintf("vendor_%d", n),
				Email:    fmt.Sprintf("vendor_%d@example.com", n),
				Password: seedPassword,
			})
			var taken *services.ValidationError
			if errors.As(err, &taken) && taken.Field == "username" {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("create vendor user: %w", err)
			}
			s.rep.Users++
		}

		if _, err := s.users.BecomeVendor(ctx, user.ID, services.VendorInput{
			Name:        fmt.Sprintf("Vendor %d Inc", len(ids)+1),
			Description: ptr("A great vendor"),
		}); err != nil {
			return nil, fmt.Errorf("create vendor profile: %w", err)
		}
		s.rep.Vendors++
		ids = append(ids, user.ID)
	}
	return ids, nil
}

func pick(r *rand.Rand, from []string) string { return from[r.IntN(len(from))] }

func ptr[T any](v T) *T { return &v }
