// Package kvstore is the flat, namespaced key/value cache that stands in for
// browser local storage. Each session owns one namespace; values are opaque
// bytes written and read wholesale.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// Keys used by the portal. They match the storage keys of the web client so
// exported caches stay interchangeable.
const (
	KeyClients    = "telconova_clients"
	KeyWorkOrders = "telconova_work_orders"
	KeyToken      = "telconova_token"
	KeyUser       = "telconova_user"
)

var ErrNotFound = errors.New("kvstore: key not found")

// Store persists values per namespace and key.
type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace string, keys ...string) error
}

// Purger drops namespaces whose most recent write is older than cutoff.
type Purger interface {
	PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error)
}

// ValidateKey rejects empty namespaces and keys.
func ValidateKey(namespace, key string) error {
	if namespace == "" {
		return errors.New("kvstore: namespace is required")
	}
	if key == "" {
		return errors.New("kvstore: key is required")
	}
	return nil
}
