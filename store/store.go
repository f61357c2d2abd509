package store

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"

	"github.com/dymensionxyz/daclient/types"
)

const blobPrefix = "batch/"

// DefaultStore keeps batch payloads in a KV.
type DefaultStore struct {
	db     KV
	logger types.Logger
}

var _ BlobStore = &DefaultStore{}

// New returns new, default store.
func New(kv KV, logger types.Logger) *DefaultStore {
	return &DefaultStore{
		db:     kv,
		logger: logger,
	}
}

// BlobKey is the key under which the payload of a batch is stored.
func BlobKey(batchNumber uint32) []byte {
	return []byte(blobPrefix + strconv.FormatUint(uint64(batchNumber), 10))
}

func (s *DefaultStore) SaveBlob(batchNumber uint32, data []byte) error {
	if err := s.db.Set(BlobKey(batchNumber), data); err != nil {
		return errorsmod.Wrapf(err, "save blob: batch %d", batchNumber)
	}
	return nil
}

func (s *DefaultStore) LoadBlob(batchNumber uint32) ([]byte, error) {
	data, err := s.db.Get(BlobKey(batchNumber))
	if err != nil {
		return nil, errorsmod.Wrapf(err, "load blob: batch %d", batchNumber)
	}
	return data, nil
}

func (s *DefaultStore) HasBlob(batchNumber uint32) (bool, error) {
	ok, err := s.db.Has(BlobKey(batchNumber))
	if err != nil {
		return false, errorsmod.Wrapf(err, "has blob: batch %d", batchNumber)
	}
	return ok, nil
}
