// Package models defines the domain types shared across finch.
package models

import "errors"

// Sentinel errors returned by the storage layer. Handlers map these onto
// HTTP status codes at the API boundary.
var (
	// ErrNotFound covers both genuinely missing rows and rows owned by a
	// different user. The two cases are deliberately indistinguishable so
	// that cross-tenant probes cannot confirm a resource exists.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a unique-constraint violation (duplicate email).
	ErrConflict = errors.New("already exists")
)
