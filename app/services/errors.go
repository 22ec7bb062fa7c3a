package services

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/bazaar/app/models"
)

// ErrNotVendor is returned when a user without a vendor profile tries to
// list a product.
var ErrNotVendor = errors.New("user is not a vendor")

// ErrInvalidCredentials is returned by Login for any bad username/password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError rejects input before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a reference to a missing record.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

func notFound(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// DuplicateNameError is returned when a category name is already taken
// anywhere in the tree.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("category name %q already exists", e.Name)
}

// SlugConflictError is returned when a concurrent writer claimed the same
// slug between allocation and insert, and the single retry also lost.
type SlugConflictError struct {
	Kind models.Kind
	Slug string
}

func (e *SlugConflictError) Error() string {
	return fmt.Sprintf("%s product slug %q is already taken", e.Kind, e.Slug)
}

// CycleError rejects a re-parent that would make a category its own ancestor.
type CycleError struct {
	CategoryID uint
	ParentID   uint
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("category %d cannot be moved under %d: would create a cycle", e.CategoryID, e.ParentID)
}
