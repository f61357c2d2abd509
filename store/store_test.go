package store_test

import (
	"testing"

	"github.com/dymensionxyz/gerr-cosmos/gerrc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/dymensionxyz/daclient/store"
)

func kvStores(t *testing.T) map[string]store.KV {
	inMemory, err := store.NewInMemoryKV()
	require.NoError(t, err)
	onDisk, err := store.NewKV(t.TempDir(), "db", "test", store.BadgerOpts{SyncWrites: true}, log.TestingLogger())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = inMemory.Close()
		_ = onDisk.Close()
	})
	return map[string]store.KV{"in memory": inMemory, "on disk": onDisk}
}

func TestKV(t *testing.T) {
	for name, kv := range kvStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get([]byte("missing"))
			require.ErrorIs(t, err, gerrc.ErrNotFound)

			require.NoError(t, kv.Set([]byte("a/1"), []byte("one")))
			require.NoError(t, kv.Set([]byte("a/2"), []byte("two")))
			require.NoError(t, kv.Set([]byte("b/1"), []byte("other")))

			value, err := kv.Get([]byte("a/1"))
			require.NoError(t, err)
			assert.Equal(t, []byte("one"), value)

			ok, err := kv.Has([]byte("a/2"))
			require.NoError(t, err)
			assert.True(t, ok)

			iter := kv.PrefixIterator([]byte("a/"))
			var keys []string
			for ; iter.Valid(); iter.Next() {
				keys = append(keys, string(iter.Key()))
			}
			iter.Discard()
			assert.Equal(t, []string{"a/1", "a/2"}, keys)

			batch := kv.NewBatch()
			require.NoError(t, batch.Delete([]byte("a/1")))
			require.NoError(t, batch.Set([]byte("a/3"), []byte("three")))
			require.NoError(t, batch.Commit())
			batch.Discard()

			ok, err = kv.Has([]byte("a/1"))
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Delete([]byte("a/3")))
			_, err = kv.Get([]byte("a/3"))
			assert.ErrorIs(t, err, gerrc.ErrNotFound)
		})
	}
}

func TestRootify(t *testing.T) {
	assert.Equal(t, "/abs/db", store.Rootify("/root", "/abs/db"))
	assert.Equal(t, "/root/data", store.Rootify("/root", "data"))
}

func TestBlobStore(t *testing.T) {
	kv, err := store.NewInMemoryKV()
	require.NoError(t, err)
	defer kv.Close() // nolint:errcheck

	s := store.New(kv, log.TestingLogger())

	assert.Equal(t, []byte("batch/42"), store.BlobKey(42))

	ok, err := s.HasBlob(1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.LoadBlob(1)
	require.ErrorIs(t, err, gerrc.ErrNotFound)

	require.NoError(t, s.SaveBlob(1, []byte("payload")))
	ok, err = s.HasBlob(1)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := s.LoadBlob(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	require.NoError(t, s.SaveBlob(1, []byte("replaced")))
	data, err = s.LoadBlob(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), data)
}

func TestPruneBlobs(t *testing.T) {
	cases := []struct {
		name        string
		batches     []uint32
		from        uint32
		to          uint32
		pruned      uint32
		shouldError bool
	}{
		{"contiguous", []uint32{1, 2, 3, 4, 5}, 3, 5, 2, false},
		{"out of order", []uint32{2, 3, 1, 5}, 1, 4, 3, false},
		{"with a gap", []uint32{1, 9, 10}, 3, 10, 1, false},
		{"same bound", []uint32{1, 2, 3}, 3, 3, 0, true},
		{"to exceeds stored batches", []uint32{1, 2, 3}, 2, 50, 2, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			kv, err := store.NewInMemoryKV()
			require.NoError(t, err)
			defer kv.Close() // nolint:errcheck
			s := store.New(kv, log.TestingLogger())

			for _, n := range c.batches {
				require.NoError(t, s.SaveBlob(n, []byte{byte(n)}))
			}

			pruned, err := s.PruneBlobs(c.from, c.to)
			if c.shouldError {
				require.ErrorIs(t, err, gerrc.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.pruned, pruned)

			for _, n := range c.batches {
				ok, err := s.HasBlob(n)
				require.NoError(t, err)
				assert.Equal(t, n < c.from || n >= c.to, ok, "batch %d", n)
			}
		})
	}
}

func TestPruneBlobsKeepsOtherKeys(t *testing.T) {
	kv, err := store.NewInMemoryKV()
	require.NoError(t, err)
	defer kv.Close() // nolint:errcheck
	s := store.New(kv, log.TestingLogger())

	for _, n := range []uint32{2, 10, 1500, 2500} {
		require.NoError(t, s.SaveBlob(n, []byte{1}))
	}
	require.NoError(t, kv.Set([]byte("batch/latest"), []byte{1}))
	require.NoError(t, kv.Set([]byte("meta/3"), []byte{1}))

	pruned, err := s.PruneBlobs(0, 2000)
	require.NoError(t, err)
	assert.EqualValues(t, 3, pruned)

	ok, err := s.HasBlob(2500)
	require.NoError(t, err)
	assert.True(t, ok)
	for _, key := range []string{"batch/latest", "meta/3"} {
		ok, err = kv.Has([]byte(key))
		require.NoError(t, err)
		assert.True(t, ok, key)
	}
}
