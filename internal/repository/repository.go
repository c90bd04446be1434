package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) inside this directory.

import "errors"

var (
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStale is returned when a conditional update finds the row no longer in the expected state.
	ErrStale = errors.New("record changed concurrently")
	// ErrLimitReached is returned when an identity already owns as many profiles as allowed.
	ErrLimitReached = errors.New("profile limit reached")
	// ErrLastProfile is returned when deleting would leave an identity without profiles.
	ErrLastProfile = errors.New("cannot delete the last profile")
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
