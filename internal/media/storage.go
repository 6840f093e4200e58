package media

import "context"

// Storage persists uploaded image files. Save writes the file under the
// given relative name and returns the stored path.
type Storage interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}
