// Package store persists tablet settings as key/value pairs.
package store

import "context"

// Store is the persistence contract for tablet settings. Get returns
// sentinel.ErrNotFound for a key that was never written.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
