// Package metadata is the client's local key/value store. The session token
// is its only persisted key.
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// TokenKey is the key the session token is stored under.
const TokenKey = "token"
