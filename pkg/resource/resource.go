// Package resource shapes models into the JSON maps handlers return.
//
//	func productResource(p models.Product) resource.Map { ... }
//
//	c.Success(resource.Collection(products, productResource))
package resource

// Map is the output of a transformer.
type Map = map[string]any

// Transformer converts one model into a Map.
type Transformer[T any] func(T) Map

// Collection applies fn to every item. It never returns nil so empty lists
// encode as [].
func Collection[T any](items []T, fn Transformer[T]) []Map {
	out := make([]Map, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

// Page wraps a collection with the window it was read from.
func Page(items []Map, limit, offset int) Map {
	return Map{
		"items":  items,
		"count":  len(items),
		"limit":  limit,
		"offset": offset,
	}
}
