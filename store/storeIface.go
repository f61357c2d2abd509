package store

// KV encapsulates key-value store abstraction, in minimalistic interface.
//
// KV MUST be thread safe.
type KV interface {
	Get(key []byte) ([]byte, error)          // Get gets the value for a key.
	Set(key []byte, value []byte) error      // Set updates the value for a key.
	Has(key []byte) (bool, error)            // Has reports whether the key exists.
	Delete(key []byte) error                 // Delete deletes a key.
	NewBatch() KVBatch                       // NewBatch creates a new batch.
	PrefixIterator(prefix []byte) KVIterator // PrefixIterator creates iterator to traverse given prefix.
	Close() error                            // Close closes the store.
}

// KVBatch enables batching of transactions.
type KVBatch interface {
	Set(key, value []byte) error // Accumulates KV entries in a transaction.
	Delete(key []byte) error     // Deletes the given key.
	Commit() error               // Commits the transaction.
	Discard()                    // Discards the transaction.
}

// KVIterator walks the keys under a prefix in lexicographic order.
type KVIterator interface {
	Valid() bool
	Next()
	Key() []byte
	Discard()
}

// BlobStore keeps the payloads of dispatched batches, keyed by batch number.
type BlobStore interface {
	// SaveBlob stores the payload of a batch, replacing any previous one.
	SaveBlob(batchNumber uint32, data []byte) error
	// LoadBlob returns the payload of a batch, or an error wrapping gerrc.ErrNotFound.
	LoadBlob(batchNumber uint32) ([]byte, error)
	HasBlob(batchNumber uint32) (bool, error)
	// PruneBlobs removes the payloads of batches in [from, to). It returns the number removed.
	PruneBlobs(from, to uint32) (uint32, error)
}
