package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"deliciasmz/kv"
	"deliciasmz/logging"

	"go.uber.org/zap"
)

const (
	RecipesKey   = "deliciasmz_recipes"
	FavoritesKey = "deliciasmz_user_favorites"
)

// FavoritesKeyFor scopes the favorites list to one device.
func FavoritesKeyFor(deviceID string) string {
	if deviceID == "" {
		return FavoritesKey
	}
	return FavoritesKey + ":" + deviceID
}

// Favorites is the private bookmark list of one device. It lives next to the
// recipe collection, never inside it, and is never sent to the backend.
type Favorites struct {
	store kv.Store
	key   string
	log   *zap.Logger
	mu    sync.Mutex
}

func NewFavorites(store kv.Store, deviceID string, log *zap.Logger) *Favorites {
	return &Favorites{store: store, key: FavoritesKeyFor(deviceID), log: logging.OrNop(log)}
}

// List returns the stored IDs; unreadable data counts as an empty list.
func (f *Favorites) List(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(ctx), nil
}

// Toggle flips membership of recipeID and returns the new list.
func (f *Favorites) Toggle(ctx context.Context, recipeID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current := f.read(ctx)
	next := make([]string, 0, len(current)+1)
	found := false
	for _, id := range current {
		if id == recipeID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		next = append(next, recipeID)
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return nil, err
	}
	if err := f.store.Set(ctx, f.key, string(raw), 0); err != nil {
		return nil, fmt.Errorf("save favorites: %w", err)
	}
	return next, nil
}

func (f *Favorites) read(ctx context.Context) []string {
	raw, ok, err := f.store.Get(ctx, f.key)
	if err != nil {
		f.log.Warn("Reading favorites failed", zap.String("key", f.key), zap.Error(err))
		return []string{}
	}
	if !ok {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		f.log.Warn("Discarding unreadable favorites", zap.String("key", f.key), zap.Error(err))
		return []string{}
	}
	if ids == nil {
		ids = []string{}
	}
	return ids
}
