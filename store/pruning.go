package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dymensionxyz/gerr-cosmos/gerrc"
)

const pruneFlushEvery = 1000

// PruneBlobs removes the payloads of batches in [from, to). Only stored batches are visited.
func (s *DefaultStore) PruneBlobs(from, to uint32) (uint32, error) {
	if to <= from {
		return 0, fmt.Errorf("to must be greater than from: to: %d: from: %d: %w", to, from, gerrc.ErrInvalidArgument)
	}

	iter := s.db.PrefixIterator([]byte(blobPrefix))
	defer iter.Discard()

	batch := s.db.NewBatch()
	defer func() { batch.Discard() }()

	pruned := uint32(0)
	for ; iter.Valid(); iter.Next() {
		key := iter.Key()
		n, err := parseBlobKey(key)
		if err != nil {
			s.logger.Debug("unable to prune", "key", string(key), "err", err)
			continue
		}
		if n < from || n >= to {
			continue
		}
		if err := batch.Delete(key); err != nil {
			s.logger.Debug("unable to prune", "batch", n, "err", err)
			continue
		}
		pruned++

		// flush every so often to avoid batches becoming too large
		if pruned%pruneFlushEvery == 0 {
			if err := batch.Commit(); err != nil {
				return 0, fmt.Errorf("flush batch to disk: batch %d: %w", n, err)
			}
			batch.Discard()
			batch = s.db.NewBatch()
		}
	}

	if err := batch.Commit(); err != nil {
		return 0, fmt.Errorf("flush batch to disk: %w", err)
	}
	return pruned, nil
}

func parseBlobKey(key []byte) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(string(key), blobPrefix), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse blob key: %w", err)
	}
	return uint32(n), nil
}
