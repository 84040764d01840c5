package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

// KV is the string key-value boundary the task list is persisted through.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Timestamped is implemented by stores that record when a key was written.
type Timestamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}
