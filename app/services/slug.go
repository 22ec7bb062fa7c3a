package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const (
	maxSlugBase  = 100
	fallbackSlug = "product"
)

// SlugScope decides which products compete for the same slug.
type SlugScope string

const (
	// SlugScopeKind makes slugs unique across every product of one kind.
	SlugScopeKind SlugScope = "kind"
	// SlugScopeCategory makes slugs unique within one category of one kind.
	SlugScopeCategory SlugScope = "category"
)

// Slugify lowercases name, strips accents and joins the remaining
// alphanumeric runs with single hyphens. Names with nothing usable
// become "product".
func Slugify(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))),
		name,
	)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	slug := b.String()
	if len(slug) > maxSlugBase {
		slug = strings.TrimRight(slug[:maxSlugBase], "-")
	}
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// SlugAllocator proposes a slug for a product that is about to be inserted.
// The proposal may still lose a race; the insert is the final arbiter.
type SlugAllocator interface {
	Allocate(ctx context.Context, tx *gorm.DB, kind models.Kind, categoryID uint, name string) (string, error)
}

// StoreSlugAllocator picks the first free candidate among base, base-1,
// base-2 and so on, reading taken slugs from the product table.
//
// Storage only enforces (category_id, slug). Under SlugScopeKind two
// concurrent creates in different categories can both read the same free
// slug and both commit; kind-wide uniqueness is best-effort there.
type StoreSlugAllocator struct {
	Scope SlugScope
}

func (a StoreSlugAllocator) Allocate(ctx context.Context, tx *gorm.DB, kind models.Kind, categoryID uint, name string) (string, error) {
	base := Slugify(name)

	var scope *uint
	if a.Scope == SlugScopeCategory {
		scope = &categoryID
	}
	taken, err := repositories.NewProductRepository(tx).SlugsLike(ctx, kind, base, scope)
	if err != nil {
		return "", err
	}
	return nextFreeSlug(base, taken), nil
}

func nextFreeSlug(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
