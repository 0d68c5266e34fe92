// Package repository implements the persistence layer over MySQL and
// defines the store interfaces consumed by handlers and middleware.
// Sentinel errors defined here let higher layers translate storage
// failures into the right HTTP responses without inspecting driver
// specifics.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.  Handlers map
// it onto a 400 for user lookups (so that "missing" and "wrong
// credentials" stay indistinguishable) and onto a 404 for phrases.
var ErrNotFound = errors.New("record not found")

// ErrUsernameExists is returned when an insert violates the unique
// index on users.username.  The pre-registration count check is only
// advisory; this error is the authoritative signal when two
// registrations race.
var ErrUsernameExists = errors.New("username already exists")
