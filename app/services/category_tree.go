package services

import (
	"sort"

	"github.com/shashiranjanraj/bazaar/app/models"
)

// CategoryNode is one arena slot: the category plus its children's ids,
// sorted by child name.
type CategoryNode struct {
	models.Category
	Children []uint
}

// CategoryTree is an in-memory snapshot of the category forest keyed by id.
type CategoryTree struct {
	nodes map[uint]*CategoryNode
	roots []uint
}

// NewCategoryTree builds the arena from a flat list. A parent id that does
// not resolve makes the node a root.
func NewCategoryTree(categories []models.Category) *CategoryTree {
	t := &CategoryTree{nodes: make(map[uint]*CategoryNode, len(categories))}
	for _, c := range categories {
		t.nodes[c.ID] = &CategoryNode{Category: c}
	}
	for _, c := range categories {
		if c.ParentID != nil {
			if parent, ok := t.nodes[*c.ParentID]; ok {
				parent.Children = append(parent.Children, c.ID)
				continue
			}
		}
		t.roots = append(t.roots, c.ID)
	}

	byName := func(ids []uint) {
		sort.Slice(ids, func(i, j int) bool {
			return t.nodes[ids[i]].Name < t.nodes[ids[j]].Name
		})
	}
	byName(t.roots)
	for _, n := range t.nodes {
		byName(n.Children)
	}
	return t
}

func (t *CategoryTree) Len() int { return len(t.nodes) }

func (t *CategoryTree) Node(id uint) (*CategoryNode, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Roots returns the top-level categories ordered by name.
func (t *CategoryTree) Roots() []models.Category {
	return t.categories(t.roots)
}

// Children returns the direct children of id ordered by name.
func (t *CategoryTree) Children(id uint) []models.Category {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return t.categories(n.Children)
}

func (t *CategoryTree) categories(ids []uint) []models.Category {
	out := make([]models.Category, len(ids))
	for i, id := range ids {
		out[i] = t.nodes[id].Category
	}
	return out
}

// Ancestors returns the ids from id's parent up to its root.
func (t *CategoryTree) Ancestors(id uint) []uint {
	var out []uint
	seen := map[uint]bool{id: true}
	n, ok := t.nodes[id]
	for ok && n.ParentID != nil {
		pid := *n.ParentID
		if seen[pid] {
			break
		}
		if n, ok = t.nodes[pid]; !ok {
			break
		}
		seen[pid] = true
		out = append(out, pid)
	}
	return out
}

// IsAncestor reports whether a is a proper ancestor of b.
func (t *CategoryTree) IsAncestor(a, b uint) bool {
	for _, id := range t.Ancestors(b) {
		if id == a {
			return true
		}
	}
	return false
}

// Subtree returns id followed by all of its descendants, breadth first.
// It is empty when id is unknown.
func (t *CategoryTree) Subtree(id uint) []uint {
	if _, ok := t.nodes[id]; !ok {
		return nil
	}
	out := []uint{id}
	for i := 0; i < len(out); i++ {
		out = append(out, t.nodes[out[i]].Children...)
	}
	return out
}

// Descendants is Subtree without id itself.
func (t *CategoryTree) Descendants(id uint) []uint {
	s := t.Subtree(id)
	if len(s) == 0 {
		return nil
	}
	return s[1:]
}

// NestedCategory is the JSON shape of the whole tree.
type NestedCategory struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Children    []NestedCategory `json:"children"`
}

// Nested renders the forest with children ordered by name.
func (t *CategoryTree) Nested() []NestedCategory {
	var build func(ids []uint) []NestedCategory
	build = func(ids []uint) []NestedCategory {
		out := make([]NestedCategory, 0, len(ids))
		for _, id := range ids {
			n := t.nodes[id]
			out = append(out, NestedCategory{
				ID:          n.ID,
				Name:        n.Name,
				Description: n.Description,
				Children:    build(n.Children),
			})
		}
		return out
	}
	return build(t.roots)
}
