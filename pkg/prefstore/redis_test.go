package prefstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listview "github.com/goliatone/go-listview/components/listview"
)

func newStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, Config{TTL: ttl}), srv
}

func TestStoreRoundTrip(t *testing.T) {
	store, srv := newStore(t, 0)
	ctx := context.Background()
	prefs := listview.ViewPreferences{
		Query:       "pickle",
		Categorical: listview.Categorical{Field: "status", Value: "Shipped"},
	}
	require.NoError(t, store.SavePreferences(ctx, "u1", listview.KindOrders, prefs))
	assert.True(t, srv.Exists("listview:prefs:u1::orders"))

	got, err := store.LoadPreferences(ctx, "u1", listview.KindOrders)
	require.NoError(t, err)
	assert.Equal(t, prefs, got)

	other, err := store.LoadPreferences(ctx, "u1", listview.KindProducts)
	require.NoError(t, err)
	assert.Equal(t, listview.DefaultPreferences(), other)
}

func TestStoreAppliesTTL(t *testing.T) {
	store, srv := newStore(t, time.Minute)
	require.NoError(t, store.SavePreferences(context.Background(), "u1", listview.KindUsers, listview.ViewPreferences{Query: "a"}))
	assert.Equal(t, time.Minute, srv.TTL("listview:prefs:u1::users"))

	srv.FastForward(2 * time.Minute)
	got, err := store.LoadPreferences(context.Background(), "u1", listview.KindUsers)
	require.NoError(t, err)
	assert.Equal(t, listview.DefaultPreferences(), got)
}

func TestStoreRequiresUser(t *testing.T) {
	store, _ := newStore(t, 0)
	err := store.SavePreferences(context.Background(), "", listview.KindUsers, listview.ViewPreferences{})
	assert.Error(t, err)
	got, err := store.LoadPreferences(context.Background(), "", listview.KindUsers)
	require.NoError(t, err)
	assert.Equal(t, listview.DefaultPreferences(), got)
}

func TestStoreRejectsCorruptEntries(t *testing.T) {
	store, srv := newStore(t, 0)
	require.NoError(t, srv.Set("listview:prefs:u1::carts", "{not json"))
	_, err := store.LoadPreferences(context.Background(), "u1", listview.KindCarts)
	assert.Error(t, err)
}

func TestConfigConnect(t *testing.T) {
	srv := miniredis.RunT(t)
	client, err := Config{URL: "redis://" + srv.Addr()}.Connect(context.Background())
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())

	_, err = Config{URL: "://bad"}.Connect(context.Background())
	assert.Error(t, err)
}
