package storage

import (
	"context"
	"testing"

	"deliciasmz/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoritesAreScopedPerDevice(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	phone := NewFavorites(mem, "phone", nil)
	laptop := NewFavorites(mem, "laptop", nil)

	_, err := phone.Toggle(ctx, "rec_001")
	require.NoError(t, err)

	favs, _ := laptop.List(ctx)
	assert.Empty(t, favs)
	favs, _ = phone.List(ctx)
	assert.Equal(t, []string{"rec_001"}, favs)

	assert.Equal(t, "deliciasmz_user_favorites", FavoritesKeyFor(""))
	assert.Equal(t, "deliciasmz_user_favorites:phone", FavoritesKeyFor("phone"))
}

func TestFavoritesToggleTwiceRestoresState(t *testing.T) {
	ctx := context.Background()
	f := NewFavorites(kv.NewMemory(), "", nil)

	_, _ = f.Toggle(ctx, "a")
	_, _ = f.Toggle(ctx, "b")
	before, _ := f.List(ctx)

	_, err := f.Toggle(ctx, "c")
	require.NoError(t, err)
	after, err := f.Toggle(ctx, "c")
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, []string{"a", "b"}, after)
}

func TestFavoritesCorruptDataReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, FavoritesKey, "nope", 0))

	f := NewFavorites(mem, "", nil)
	favs, err := f.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, favs)

	favs, err = f.Toggle(ctx, "rec_001")
	require.NoError(t, err)
	assert.Equal(t, []string{"rec_001"}, favs)
}
