// Package store provides the hierarchical key-value record store the clinic
// server persists into. Records live under two-segment paths of the form
// "collection/id" and are flat JSON field bags; the rest of the application
// depends only on the RecordStore interface, never on a concrete backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get for a path with no record. Callers are
// expected to branch on it: a missing record is a valid outcome, not a
// failure.
var ErrNotFound = errors.New("record not found")

// Fields is a flat record field bag as stored under a path.
type Fields = map[string]any

// RecordStore is the primitive persistence interface. Update performs a
// shallow merge: top-level keys in partial replace the stored value wholesale,
// including nested objects.
type RecordStore interface {
	// Get reads the record at path, or ErrNotFound.
	Get(ctx context.Context, path string) (Fields, error)

	// Set writes the full record at path, replacing any existing value.
	Set(ctx context.Context, path string, value Fields) error

	// Update shallow-merges partial into the record at path. A nil value for
	// a key removes that key. Updating a missing path creates the record.
	Update(ctx context.Context, path string, partial Fields) error

	// Delete removes the record at path. Deleting a missing path is a no-op.
	Delete(ctx context.Context, path string) error

	// List returns every child record of a collection path, keyed by id.
	List(ctx context.Context, path string) (map[string]Fields, error)

	// Subscribe registers fn to be called with the record value after every
	// write to path (nil on delete). The returned function cancels the
	// subscription; it must be called when the consumer goes away.
	Subscribe(path string, fn func(Fields)) (unsubscribe func())
}

// SplitPath breaks "collection/id" into its two segments.
func SplitPath(path string) (collection, id string, err error) {
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid record path %q: want collection/id", path)
	}
	return parts[0], parts[1], nil
}

// Join builds a record path from a collection and an id.
func Join(collection, id string) string {
	return collection + "/" + id
}
