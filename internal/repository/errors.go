// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow handlers to distinguish
// between failure scenarios without inspecting SQL errors. For example,
// ErrCategoryNotFound maps to HTTP 404 on product creation, while
// ErrTokenNotActive collapses every unusable refresh token (unknown,
// revoked, expired, or lost rotation race) into one value that maps to
// a single generic 401.
package repository

import "errors"

// ErrCategoryNotFound is returned when a referenced category does not
// exist. Handlers translate this into an HTTP 404 response.
var ErrCategoryNotFound = errors.New("category not found")

// ErrTokenNotActive is returned when a refresh token cannot be rotated:
// no row matches, the row is revoked, the row is expired, or a concurrent
// rotation won the race. The cases are intentionally indistinguishable.
var ErrTokenNotActive = errors.New("refresh token not active")
