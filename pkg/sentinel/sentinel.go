// Package sentinel holds infrastructure-level sentinel errors. Stores return
// these (optionally wrapped) so services can translate them into domain
// errors without depending on store internals.
package sentinel

import "errors"

var (
	// ErrNotFound: record does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a uniqueness constraint was violated.
	ErrConflict = errors.New("conflict")
)
