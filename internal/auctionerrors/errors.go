package auctionerrors

import (
	"errors"
	"fmt"
)

// Error classes; every specific error below wraps exactly one of them
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStoreIO    = errors.New("store unavailable")
)

// Validation errors
var (
	ErrEmptyName     = fmt.Errorf("%w: bidder name is required", ErrValidation)
	ErrEmptyItemName = fmt.Errorf("%w: item name is required", ErrValidation)
	ErrInvalidStatus = fmt.Errorf("%w: unknown session status", ErrValidation)
	ErrDuplicateName = fmt.Errorf("%w: bidder name already used in this session", ErrValidation)
	ErrSingleSession = fmt.Errorf("%w: local store holds a single session", ErrValidation)
)

// Lookup errors
var (
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
	ErrBidNotFound     = fmt.Errorf("bid %w", ErrNotFound)
)

// StoreIO wraps a datastore failure so callers can match ErrStoreIO
func StoreIO(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreIO, err)
}
