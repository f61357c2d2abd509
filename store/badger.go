package store

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/dymensionxyz/gerr-cosmos/gerrc"

	"github.com/dymensionxyz/daclient/types"
)

const (
	gcTimeout    = 1 * time.Minute
	discardRatio = 0.5 // Recommended by badger. Indicates that a file will be rewritten if half the space can be discarded.
)

var (
	_ KV      = &BadgerKV{}
	_ KVBatch = &BadgerBatch{}
)

// BadgerKV is a implementation of KV using Badger v4.
type BadgerKV struct {
	db        *badger.DB
	closing   chan struct{}
	closeOnce sync.Once
}

type BadgerOpts struct {
	SyncWrites    bool
	NumCompactors int
}

// NewInMemoryKV builds a KV that works in-memory (without accessing disk).
func NewInMemoryKV() (*BadgerKV, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, errorsmod.Wrap(err, "open in-memory badger")
	}
	return &BadgerKV{
		db:      db,
		closing: make(chan struct{}),
	}, nil
}

// NewKV opens the badger database at rootDir/dbPath/dbName and runs its value log GC in the
// background until Close.
func NewKV(rootDir, dbPath, dbName string, badgerOpts BadgerOpts, logger types.Logger) (*BadgerKV, error) {
	path := filepath.Join(Rootify(rootDir, dbPath), dbName)
	db, err := badger.Open(*memoryEfficientBadgerConfig(path, badgerOpts))
	if err != nil {
		return nil, errorsmod.Wrapf(err, "open badger: %s", path)
	}
	b := &BadgerKV{
		db:      db,
		closing: make(chan struct{}),
	}
	go b.gc(gcTimeout, discardRatio, logger)
	return b, nil
}

// Rootify is helper function to make config creation independent of root dir
func Rootify(rootDir, dbPath string) string {
	if filepath.IsAbs(dbPath) {
		return dbPath
	}
	return filepath.Join(rootDir, dbPath)
}

// Close implements KV.
func (b *BadgerKV) Close() error {
	b.closeOnce.Do(func() {
		close(b.closing)
	})
	return b.db.Close()
}

func (b *BadgerKV) gc(period time.Duration, discardRatio float64, logger types.Logger) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-b.closing:
			return
		case <-ticker.C:
			if err := b.db.RunValueLogGC(discardRatio); err != nil {
				logger.Debug("Running db RunValueLogGC", "err", err)
			}
		}
	}
}

// Get returns value for given key, or an error wrapping gerrc.ErrNotFound.
func (b *BadgerKV) Get(key []byte) ([]byte, error) {
	txn := b.db.NewTransaction(false)
	defer txn.Discard()
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, gerrc.ErrNotFound.Wrapf("key: %s", key)
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (b *BadgerKV) Has(key []byte) (bool, error) {
	txn := b.db.NewTransaction(false)
	defer txn.Discard()
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Set saves key-value mapping in store.
func (b *BadgerKV) Set(key []byte, value []byte) error {
	txn := b.db.NewTransaction(true)
	defer txn.Discard()
	if err := txn.Set(key, value); err != nil {
		return err
	}
	return txn.Commit()
}

// Delete removes key and corresponding value from store.
func (b *BadgerKV) Delete(key []byte) error {
	txn := b.db.NewTransaction(true)
	defer txn.Discard()
	if err := txn.Delete(key); err != nil {
		return err
	}
	return txn.Commit()
}

// NewBatch creates new batch.
// Note: badger batches should be short lived as they use extra resources.
func (b *BadgerKV) NewBatch() KVBatch {
	return &BadgerBatch{
		txn: b.db.NewTransaction(true),
	}
}

// BadgerBatch encapsulates badger transaction
type BadgerBatch struct {
	txn *badger.Txn
}

func (bb *BadgerBatch) Set(key, value []byte) error {
	return bb.txn.Set(key, value)
}

func (bb *BadgerBatch) Delete(key []byte) error {
	return bb.txn.Delete(key)
}

func (bb *BadgerBatch) Commit() error {
	return bb.txn.Commit()
}

func (bb *BadgerBatch) Discard() {
	bb.txn.Discard()
}

var _ KVIterator = &BadgerIterator{}

// PrefixIterator returns a key-only iterator over prefix.
func (b *BadgerKV) PrefixIterator(prefix []byte) KVIterator {
	txn := b.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	iter := txn.NewIterator(opts)
	iter.Seek(prefix)
	return &BadgerIterator{
		txn:    txn,
		iter:   iter,
		prefix: prefix,
	}
}

// BadgerIterator walks the keys of a read transaction under a prefix.
type BadgerIterator struct {
	txn    *badger.Txn
	iter   *badger.Iterator
	prefix []byte
}

// Valid returns true if iterator is inside its prefix, false otherwise.
func (i *BadgerIterator) Valid() bool {
	return i.iter.ValidForPrefix(i.prefix)
}

func (i *BadgerIterator) Next() {
	i.iter.Next()
}

func (i *BadgerIterator) Key() []byte {
	return i.iter.Item().KeyCopy(nil)
}

// Discard has to be called to free iterator resources.
func (i *BadgerIterator) Discard() {
	i.iter.Close()
	i.txn.Discard()
}

// memoryEfficientBadgerConfig trades lookup speed for a flat memory profile: payloads are written
// once and read rarely.
func memoryEfficientBadgerConfig(path string, o BadgerOpts) *badger.Options {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	opts.SyncWrites = o.SyncWrites
	opts.BlockCacheSize = 0
	opts.Compression = options.None
	opts.MemTableSize = 16 << 20
	opts.NumMemtables = 3
	opts.NumLevelZeroTables = 3
	opts.NumLevelZeroTablesStall = 5
	opts.NumCompactors = o.NumCompactors
	if opts.NumCompactors == 0 {
		opts.NumCompactors = 2
	}
	opts.CompactL0OnClose = true
	return &opts
}
