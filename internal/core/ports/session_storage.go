package ports

import "context"

// SessionStorage persists the session fields under a storage key. The key is
// chosen by the caller (a browser session id, a profile name).
type SessionStorage interface {
	// Load returns the stored fields. A missing key yields an empty map, not an error.
	Load(ctx context.Context, key string) (map[string]string, error)
	Save(ctx context.Context, key string, fields map[string]string) error
	Delete(ctx context.Context, key string) error
}
