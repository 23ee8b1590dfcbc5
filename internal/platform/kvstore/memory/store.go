// Package memory is an in-process kvstore used when no database is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/telconova/portal/internal/platform/kvstore"
)

var (
	_ kvstore.Store  = (*Store)(nil)
	_ kvstore.Purger = (*Store)(nil)
)

type entry struct {
	value     []byte
	updatedAt time.Time
}

// Store keeps values in a map guarded by a RWMutex. Values are copied on the
// way in and out.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]entry
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{data: map[string]map[string]entry{}, now: time.Now}
}

func (s *Store) Get(_ context.Context, namespace, key string) ([]byte, error) {
	if err := kvstore.ValidateKey(namespace, key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[namespace][key]
	if !ok {
		return nil, kvstore.ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (s *Store) Put(_ context.Context, namespace, key string, value []byte) error {
	if err := kvstore.ValidateKey(namespace, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.data[namespace]
	if !ok {
		ns = map[string]entry{}
		s.data[namespace] = ns
	}
	ns[key] = entry{value: append([]byte(nil), value...), updatedAt: s.now()}
	return nil
}

func (s *Store) Delete(_ context.Context, namespace string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.data[namespace]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(ns, key)
	}
	if len(ns) == 0 {
		delete(s.data, namespace)
	}
	return nil
}

// PurgeIdle removes namespaces with no write at or after cutoff.
func (s *Store) PurgeIdle(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for namespace, entries := range s.data {
		var latest time.Time
		for _, e := range entries {
			if e.updatedAt.After(latest) {
				latest = e.updatedAt
			}
		}
		if latest.Before(cutoff) {
			purged += int64(len(entries))
			delete(s.data, namespace)
		}
	}
	return purged, nil
}
