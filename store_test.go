package dashboard

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/etcd-io/bbolt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	db, err := bbolt.Open(filepath.Join(t.TempDir(), "store.db"), 0644, &bbolt.Options{Timeout: time.Second})
	require.NoError(t, err)

	stores := map[string]Store{
		"bolt": NewBoltStore(db),
		"json": NewJSONStore(t.TempDir()),
	}

	t.Cleanup(func() {
		for _, store := range stores {
			_ = store.Close()
		}
	})

	return stores
}

func TestStore_PinnedComparisons(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			list, err := store.ListPinnedComparisons()
			require.NoError(t, err)
			assert.Empty(t, list)

			first := NewPinnedComparison(EntityDriver, "Lewis Hamilton", "Sebastian Vettel")
			first.Created = time.Now().Add(-time.Hour)
			second := NewPinnedComparison(EntityConstructor, "Ferrari", "Mercedes")

			require.NoError(t, store.UpsertPinnedComparison(first))
			require.NoError(t, store.UpsertPinnedComparison(second))
			assert.False(t, first.Updated.IsZero())

			loaded, err := store.LoadPinnedComparison(second.ID.String())
			require.NoError(t, err)
			assert.Equal(t, second.ID, loaded.ID)
			assert.Equal(t, EntityConstructor, loaded.Kind)
			assert.Equal(t, "Ferrari", loaded.First)
			assert.Equal(t, "Mercedes", loaded.Second)

			list, err = store.ListPinnedComparisons()
			require.NoError(t, err)

			if assert.Len(t, list, 2) {
				// newest first
				assert.Equal(t, second.ID, list[0].ID)
				assert.Equal(t, first.ID, list[1].ID)
			}

			require.NoError(t, store.DeletePinnedComparison(second.ID.String()))

			list, err = store.ListPinnedComparisons()
			require.NoError(t, err)

			if assert.Len(t, list, 1) {
				assert.Equal(t, first.ID, list[0].ID)
			}

			deleted, err := store.LoadPinnedComparison(second.ID.String())
			require.NoError(t, err)
			assert.False(t, deleted.Deleted.IsZero())

			_, err = store.LoadPinnedComparison("not-an-id")
			assert.Equal(t, ErrPinnedComparisonNotFound, err)
			assert.Equal(t, ErrPinnedComparisonNotFound, store.DeletePinnedComparison("not-an-id"))
		})
	}
}

func TestStore_Meta(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			var out string

			assert.Equal(t, ErrValueNotSet, store.GetMeta("missing", &out))

			require.NoError(t, store.SetMeta("key", "value"))
			require.NoError(t, store.GetMeta("key", &out))
			assert.Equal(t, "value", out)
		})
	}
}
