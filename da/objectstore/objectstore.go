// Package objectstore implements a DA client that keeps batch payloads in a local badger store.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dymensionxyz/gerr-cosmos/gerrc"

	"github.com/dymensionxyz/daclient/da"
	"github.com/dymensionxyz/daclient/store"
	"github.com/dymensionxyz/daclient/types"
)

const dbName = "da_blobs"

// DataAvailabilityLayerClient stores the payload of every dispatched batch under its batch number.
type DataAvailabilityLayerClient struct {
	kv     store.KV
	store  store.BlobStore
	codec  *codec
	logger types.Logger
}

var _ da.Client = &DataAvailabilityLayerClient{}

// NewClient opens the store described by config.
func NewClient(config da.ObjectStoreConfig, logger types.Logger) (*DataAvailabilityLayerClient, error) {
	var (
		kv  *store.BadgerKV
		err error
	)
	if config.InMemory {
		kv, err = store.NewInMemoryKV()
	} else {
		kv, err = store.NewKV(config.RootDir, config.DBPath, dbName, store.BadgerOpts{SyncWrites: config.SyncWrites}, logger)
	}
	if err != nil {
		return nil, da.NewPermanent(fmt.Errorf("open object store: %w", err))
	}

	client, err := NewClientWithKV(kv, config.Compress, logger)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return client, nil
}

// NewClientWithKV creates a client on top of an already opened KV. Payloads are zstd compressed
// when compress is set.
func NewClientWithKV(kv store.KV, compress bool, logger types.Logger) (*DataAvailabilityLayerClient, error) {
	c, err := newCodec(compress)
	if err != nil {
		return nil, da.NewPermanent(err)
	}
	return &DataAvailabilityLayerClient{
		kv:     kv,
		store:  store.New(kv, logger),
		codec:  c,
		logger: logger,
	}, nil
}

// Close closes the underlying store. Clones share it.
func (c *DataAvailabilityLayerClient) Close() error {
	c.codec.close()
	return c.kv.Close()
}

func (c *DataAvailabilityLayerClient) DispatchBlob(ctx context.Context, batchNumber uint32, data []byte) (*da.DispatchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, da.NewRetriable(fmt.Errorf("dispatch blob: %w: %w", gerrc.ErrCancelled, err))
	}
	stored := c.codec.encode(data)
	if err := c.store.SaveBlob(batchNumber, stored); err != nil {
		types.DADispatchCounter.WithLabelValues(string(da.ObjectStore), "failure").Inc()
		return nil, da.NewRetriable(err)
	}
	types.DADispatchCounter.WithLabelValues(string(da.ObjectStore), "success").Inc()
	types.DABlobSizeBytesGauge.Set(float64(len(stored)))
	c.logger.Debug("Blob stored.", "batch", batchNumber, "size", len(data), "stored_size", len(stored))
	return &da.DispatchResponse{BlobID: strconv.FormatUint(uint64(batchNumber), 10)}, nil
}

// EnsureFinality reports the dispatch final once its payload is stored.
func (c *DataAvailabilityLayerClient) EnsureFinality(_ context.Context, dispatchRequestID string) (*da.FinalityResponse, error) {
	batchNumber, err := parseBatchNumber(dispatchRequestID)
	if err != nil {
		return nil, err
	}

	ok, err := c.store.HasBlob(batchNumber)
	if err != nil {
		return nil, da.NewRetriable(err)
	}
	if !ok {
		return nil, nil
	}
	return &da.FinalityResponse{BlobID: dispatchRequestID}, nil
}

// GetInclusionData returns the stored payload of the batch, nil if it was never dispatched.
func (c *DataAvailabilityLayerClient) GetInclusionData(_ context.Context, blobID string) (*da.InclusionData, error) {
	batchNumber, err := parseBatchNumber(blobID)
	if err != nil {
		return nil, err
	}

	data, err := c.LoadBlob(batchNumber)
	if err != nil || data == nil {
		return nil, err
	}
	return &da.InclusionData{Data: data}, nil
}

func (c *DataAvailabilityLayerClient) Balance(_ context.Context) (uint64, error) {
	return 0, nil
}

func (c *DataAvailabilityLayerClient) ClientType() da.ClientType {
	return da.ObjectStore
}

func (c *DataAvailabilityLayerClient) BlobSizeLimit() (int, bool) {
	return 0, false
}

func (c *DataAvailabilityLayerClient) Clone() da.Client {
	clone := *c
	return &clone
}

// PruneBlobs removes the payloads of batches in [from, to) and returns how many were removed.
func (c *DataAvailabilityLayerClient) PruneBlobs(from, to uint32) (uint32, error) {
	pruned, err := c.store.PruneBlobs(from, to)
	if err != nil {
		if errors.Is(err, gerrc.ErrInvalidArgument) {
			return 0, da.NewPermanent(err)
		}
		return 0, da.NewRetriable(err)
	}
	c.logger.Info("Pruned blobs.", "from", from, "to", to, "pruned", pruned)
	return pruned, nil
}

// LoadBlob returns the stored payload of a batch, nil if there is none.
func (c *DataAvailabilityLayerClient) LoadBlob(batchNumber uint32) ([]byte, error) {
	stored, err := c.store.LoadBlob(batchNumber)
	if errors.Is(err, gerrc.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, da.NewRetriable(err)
	}

	data, err := c.codec.decode(stored)
	if err != nil {
		return nil, da.NewPermanent(fmt.Errorf("load blob: batch %d: %w: %w", batchNumber, gerrc.ErrInternal, err))
	}
	return data, nil
}

func parseBatchNumber(id string) (uint32, error) {
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return 0, da.NewPermanent(fmt.Errorf("parse blob id: %s: %w", id, gerrc.ErrInvalidArgument))
	}
	return uint32(n), nil
}
