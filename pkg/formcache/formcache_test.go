package formcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/formbus/pkg/form"
	"github.com/shashiranjanraj/formbus/pkg/formcache"
)

func snapshot(formID string) *formcache.Snapshot {
	f := form.New()
	f.Child("title").SetType("textfield").SetTitle("Title")
	return &formcache.Snapshot{
		FormID:  formID,
		Form:    f,
		BuiltAt: time.Now(),
	}
}

func TestMemoryStorePutGetDelete(t *testing.T) {
	store := formcache.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "build-1", snapshot("user_form"), time.Minute))

	got, ok := store.Get(ctx, "build-1")
	require.True(t, ok)
	assert.Equal(t, "user_form", got.FormID)
	assert.Equal(t, "textfield", got.Form.Child("title").Type())

	require.NoError(t, store.Delete(ctx, "build-1"))
	_, ok = store.Get(ctx, "build-1")
	assert.False(t, ok)
}

func TestMemoryStoreMiss(t *testing.T) {
	store := formcache.NewMemoryStore()
	_, ok := store.Get(context.Background(), "nope")
	assert.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := formcache.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "build-2", snapshot("user_form"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok := store.Get(ctx, "build-2")
	assert.False(t, ok, "entry past its TTL must read as a miss")
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	store := formcache.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "build-3", snapshot("user_form"), 0))
	_, ok := store.Get(ctx, "build-3")
	assert.True(t, ok)
}

func TestPackageHelpersUseConfiguredStore(t *testing.T) {
	store := formcache.NewMemoryStore()
	formcache.SetStore(store)
	defer formcache.SetStore(formcache.NewMemoryStore())

	ctx := context.Background()
	require.NoError(t, formcache.Put(ctx, "build-4", snapshot("article_node_form")))

	got, ok := formcache.Get(ctx, "build-4")
	require.True(t, ok)
	assert.Equal(t, "article_node_form", got.FormID)

	require.NoError(t, formcache.Delete(ctx, "build-4"))
	_, ok = formcache.Get(ctx, "build-4")
	assert.False(t, ok)
}
