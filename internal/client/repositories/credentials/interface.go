// Package credentials persists the client's auth material: the
// access/refresh token pair and the cached user profile. It is the only
// durable state shared by login, refresh, and logout.
package credentials

import (
	"context"
)

// Keys under which auth material is stored.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// Repository is a small key/value store with atomic per-key writes.
// Clear removes all keys in a single statement so logout and
// refresh-failure wipes cannot leave a partial credential behind.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	List(ctx context.Context) (map[string][]byte, error)
}
