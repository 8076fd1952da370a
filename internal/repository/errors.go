// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// account service and handlers to distinguish between different failure
// scenarios without inspecting driver-specific error strings. For
// example, ErrEmailExists signals a unique-key violation on the users
// table, while ErrNotFound is the uniform "no such row" result across
// both backends.
package repository

import "errors"

// ErrNotFound is returned when no user matches the given id or email.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("user not found")

// ErrEmailExists is returned when an insert would violate the unique
// constraint on users.email. Handlers should translate this into an
// HTTP 400 response.
var ErrEmailExists = errors.New("email already exists")
