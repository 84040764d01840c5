// Package snapshot moves task state in and out of a key-value store.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandeepkv93/tasks/internal/model"
	"github.com/sandeepkv93/tasks/internal/storage"
)

// Key is where the serialized TaskState lives.
const Key = "tasks-state"

// LoadInitialState restores the persisted task state from kv. A missing
// key yields the zero state. Read, parse and schema failures are logged and
// also yield the zero state. A snapshot that passes the schema is returned
// as stored, counters included.
func LoadInitialState(ctx context.Context, kv storage.KV, logger *slog.Logger) model.TaskState {
	if logger == nil {
		logger = slog.Default()
	}
	raw, err := kv.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.ErrorContext(ctx, "read persisted task state", "key", Key, "err", err)
		}
		return model.ZeroState()
	}
	if raw == "" {
		return model.ZeroState()
	}

	state, err := model.ParseSnapshot([]byte(raw))
	if err != nil {
		logger.ErrorContext(ctx, "discard persisted task state", "key", Key, "err", err)
		return model.ZeroState()
	}
	if !state.Consistent() {
		logger.WarnContext(ctx, "persisted task counters disagree with todos",
			"key", Key, "todos", len(state.Todos), "length", state.Length,
			"completed", state.Completed, "pending", state.Pending)
	}
	return state
}

// Save writes state under Key.
func Save(ctx context.Context, kv storage.KV, state model.TaskState) error {
	if state.Todos == nil {
		state.Todos = []model.Todo{}
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode task state: %w", err)
	}
	if err := kv.Set(ctx, Key, string(raw)); err != nil {
		return fmt.Errorf("persist task state: %w", err)
	}
	return nil
}

// Reset removes the persisted state so the next load starts from zero.
// Resetting an empty store is not an error.
func Reset(ctx context.Context, kv storage.KV) error {
	if err := kv.Delete(ctx, Key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("reset task state: %w", err)
	}
	return nil
}

// SavedAt reports when the state was last written. ok is false when kv
// keeps no timestamps or nothing has been saved.
func SavedAt(ctx context.Context, kv storage.KV) (at time.Time, ok bool, err error) {
	ts, isTimestamped := kv.(storage.Timestamped)
	if !isTimestamped {
		return time.Time{}, false, nil
	}
	at, err = ts.UpdatedAt(ctx, Key)
	if errors.Is(err, storage.ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}
