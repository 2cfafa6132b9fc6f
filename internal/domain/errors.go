package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrCelebrityNotFound  = errors.New("celebrity not found")
	ErrInsufficientTokens = errors.New("insufficient tokens")
	ErrEmptyBundle        = errors.New("template bundle is empty")
	ErrEmptySlug          = errors.New("derived slug is empty")
)

// ValidationError reports a bad or missing input field. Index is the
// position of the offending template within the submitted bundle, or -1
// when the error concerns the campaign itself.
type ValidationError struct {
	Field string
	Index int
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("templates[%d].%s: %s", e.Index, e.Field, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// NewValidationError builds a campaign-level validation error.
func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Index: -1, Msg: msg}
}

// NewTemplateValidationError builds a validation error for the template at
// the given bundle index.
func NewTemplateValidationError(index int, field, msg string) error {
	return &ValidationError{Field: field, Index: index, Msg: msg}
}

// SlugCollisionError reports that a derived slug is already taken in its
// namespace. Collisions are surfaced to the caller, never auto-suffixed,
// so published URLs stay predictable.
type SlugCollisionError struct {
	Namespace string // "campaigns" or the owning campaign's slug
	Slug      string
}

func (e *SlugCollisionError) Error() string {
	return fmt.Sprintf("slug %q already exists in %s", e.Slug, e.Namespace)
}

// StorageRejectedError carries the storage collaborator's verdict on an
// attached asset verbatim; the engine never reinterprets it.
type StorageRejectedError struct {
	Reason string
}

func (e *StorageRejectedError) Error() string {
	return "storage rejected asset: " + e.Reason
}
