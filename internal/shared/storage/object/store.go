package object

import (
	"context"
	"errors"
	"io"
)

// ErrObjectExists is returned when an upload would overwrite an existing
// object. Uploads here are strictly no-overwrite; name uniqueness is the
// caller's job.
var ErrObjectExists = errors.New("object already exists")

// Store defines the contract for the document bucket: write-once uploads,
// name enumeration, and deterministic public URL resolution.
type Store interface {
	// Upload persists the reader under name, refusing to overwrite. It
	// either fully succeeds or leaves no object behind.
	Upload(ctx context.Context, name string, r io.Reader) (sizeBytes int64, err error)
	// List enumerates stored object names.
	List(ctx context.Context) ([]string, error)
	// PublicURL maps a stored object name to a fetchable URL. The second
	// return is false when the name cannot resolve.
	PublicURL(name string) (string, bool)
}
