package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONMissingKey(t *testing.T) {
	store := NewMemoryStore()

	var dest map[string]string
	found, err := GetJSON(context.Background(), store, "produtos:nada", &dest)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, dest)
}

func TestSetJSONRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	type sample struct {
		ID    string `json:"id"`
		Preco *float64
	}
	preco := 19.9
	require.NoError(t, SetJSON(ctx, store, UserKey("u-1"), sample{ID: "u-1", Preco: &preco}))

	var got sample
	found, err := GetJSON(ctx, store, UserKey("u-1"), &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "u-1", got.ID)
	require.NotNil(t, got.Preco)
	assert.Equal(t, 19.9, *got.Preco)
}

func TestGetJSONCorruptValue(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "chave", "{nao é json"))

	var dest map[string]any
	_, err := GetJSON(ctx, store, "chave", &dest)
	assert.Error(t, err)
}

func TestMemoryStoreListSemantics(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	list, err := store.ListRange(ctx, "l")
	require.NoError(t, err)
	assert.Empty(t, list, "missing key reads as empty list")

	require.NoError(t, store.ListAppend(ctx, "l", "a", "b", "c"))
	require.NoError(t, store.ListSet(ctx, "l", 1, "B"))
	list, err = store.ListRange(ctx, "l")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "B", "c"}, list)

	assert.Error(t, store.ListSet(ctx, "l", 3, "x"), "out-of-range index")

	require.NoError(t, store.Del(ctx, "l"))
	list, err = store.ListRange(ctx, "l")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryStoreSetSemantics(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetAdd(ctx, "s", "x"))
	require.NoError(t, store.SetAdd(ctx, "s", "x"))
	members, err := store.SetMembers(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, members)

	require.NoError(t, store.SetRemove(ctx, "s", "x"))
	require.NoError(t, store.SetRemove(ctx, "s", "x"))
	members, err = store.SetMembers(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "usuario:u-1", UserKey("u-1"))
	assert.Equal(t, "email:ana@exemplo.com", EmailKey("ana@exemplo.com"))
	assert.Equal(t, "google:g-1", GoogleKey("g-1"))
	assert.Equal(t, "favoritos:u-1", FavoritesKey("u-1"))
}
