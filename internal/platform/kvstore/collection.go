package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Collection reads and rewrites a JSON array stored under one key.
type Collection[T any] struct {
	store  Store
	key    string
	logger *slog.Logger
}

func NewCollection[T any](store Store, key string, logger *slog.Logger) *Collection[T] {
	return &Collection[T]{store: store, key: key, logger: logger}
}

func (c *Collection[T]) Key() string { return c.key }

// Load returns the stored items. A missing key yields an empty slice. A value
// that is not valid JSON is logged and also yields an empty slice; the
// stored bytes are left as they are.
func (c *Collection[T]) Load(ctx context.Context, namespace string) ([]T, error) {
	items, _, err := c.Lookup(ctx, namespace)
	return items, err
}

// Lookup is Load that also reports whether a readable collection was found.
func (c *Collection[T]) Lookup(ctx context.Context, namespace string) ([]T, bool, error) {
	if c == nil || c.store == nil {
		return nil, false, errors.New("kvstore: collection not configured")
	}
	raw, err := c.store.Get(ctx, namespace, c.key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", c.key, err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		if c.logger != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "ignoring malformed cache entry",
				slog.String("cache.namespace", namespace),
				slog.String("cache.key", c.key),
				slog.String("error", err.Error()),
			)
		}
		return []T{}, false, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, true, nil
}

// Replace overwrites the whole collection.
func (c *Collection[T]) Replace(ctx context.Context, namespace string, items []T) error {
	if c == nil || c.store == nil {
		return errors.New("kvstore: collection not configured")
	}
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Put(ctx, namespace, c.key, raw); err != nil {
		return fmt.Errorf("store %s: %w", c.key, err)
	}
	return nil
}
