package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	// ErrNotFound: key or entity does not exist in the store.
	ErrNotFound = errors.New("not found")
)
