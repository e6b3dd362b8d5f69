// Package store is the persistence collaborator boundary: load and save of
// opaque JSON documents keyed by id. The core is agnostic to the backing
// store and applies no retry policy of its own.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Load when no document exists under the id.
var ErrNotFound = errors.New("document not found")

// Store persists opaque JSON documents.
type Store interface {
	Load(ctx context.Context, id string) (json.RawMessage, error)
	Save(ctx context.Context, id string, body json.RawMessage) error
	Close() error
}
