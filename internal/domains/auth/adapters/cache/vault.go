// Package cache keeps the session token and profile in the key/value cache
// under the same keys the web client uses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/telconova/portal/internal/domains/auth/domain"
	"github.com/telconova/portal/internal/domains/auth/ports"
	"github.com/telconova/portal/internal/platform/kvstore"
)

// Vault stores the token as a bare string and the user as JSON.
type Vault struct {
	store  kvstore.Store
	logger *slog.Logger
}

func NewVault(store kvstore.Store, logger *slog.Logger) *Vault {
	return &Vault{store: store, logger: logger}
}

func (v *Vault) Token(ctx context.Context, namespace string) (string, error) {
	raw, err := v.store.Get(ctx, namespace, kvstore.KeyToken)
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// User returns nil when no profile is stored or the stored one is unreadable.
func (v *Vault) User(ctx context.Context, namespace string) (*domain.User, error) {
	raw, err := v.store.Get(ctx, namespace, kvstore.KeyUser)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		if v.logger != nil {
			v.logger.LogAttrs(ctx, slog.LevelWarn, "ignoring malformed user entry",
				slog.String("session.id", namespace),
				slog.String("error", err.Error()),
			)
		}
		return nil, nil
	}
	return &user, nil
}

func (v *Vault) Save(ctx context.Context, namespace, token string, user *domain.User) error {
	if err := v.store.Put(ctx, namespace, kvstore.KeyToken, []byte(token)); err != nil {
		return err
	}
	if user == nil {
		return v.store.Delete(ctx, namespace, kvstore.KeyUser)
	}
	encoded, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return v.store.Put(ctx, namespace, kvstore.KeyUser, encoded)
}

func (v *Vault) Clear(ctx context.Context, namespace string) error {
	return v.store.Delete(ctx, namespace, kvstore.KeyToken, kvstore.KeyUser)
}

// carried lists the keys that survive a session rotation.
var carried = []string{kvstore.KeyClients, kvstore.KeyWorkOrders}

func (v *Vault) Rotate(ctx context.Context, from, to string) error {
	if from == "" || from == to {
		return nil
	}
	for _, key := range carried {
		raw, err := v.store.Get(ctx, from, key)
		if errors.Is(err, kvstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := v.store.Put(ctx, to, key, raw); err != nil {
			return err
		}
	}
	return v.store.Delete(ctx, from, append([]string{kvstore.KeyToken, kvstore.KeyUser}, carried...)...)
}

var _ ports.Vault = (*Vault)(nil)
