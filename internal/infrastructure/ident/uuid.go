// Package ident provides the production block-id allocator.
package ident

import (
	"github.com/google/uuid"

	"newsdesk/internal/domain"
)

// UUIDAllocator hands out random 128-bit identifiers. Uniqueness within one
// document's lifetime follows from the birthday bound; no state is kept.
type UUIDAllocator struct{}

var _ domain.IDAllocator = UUIDAllocator{}

// NewUUIDAllocator returns a stateless allocator.
func NewUUIDAllocator() UUIDAllocator {
	return UUIDAllocator{}
}

// NewID returns a fresh random identifier.
func (UUIDAllocator) NewID() string {
	return uuid.NewString()
}
