package nomos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/dymensionxyz/gerr-cosmos/gerrc"
	"github.com/google/uuid"
	"github.com/tendermint/tendermint/libs/pubsub"

	"github.com/dymensionxyz/daclient/da"
	"github.com/dymensionxyz/daclient/da/nomos/client"
	nomostypes "github.com/dymensionxyz/daclient/da/nomos/types"
	"github.com/dymensionxyz/daclient/types"
)

// errNotIncluded makes the confirmation loop run another pass.
var errNotIncluded = errors.New("blob not included yet")

// DataAvailabilityLayerClient disperses blobs through a Nomos executor and confirms their inclusion
// by polling the tip blocks of a list of validators.
type DataAvailabilityLayerClient struct {
	config       da.NomosConfig
	appID        nomostypes.AppID
	validators   []string
	client       *client.Client
	httpClient   *http.Client
	pubsubServer *pubsub.Server
	logger       types.Logger
}

var _ da.Client = &DataAvailabilityLayerClient{}

// WithHTTPClient sets the http client shared by every request of the client and its clones.
func WithHTTPClient(httpClient *http.Client) da.Option {
	return func(daLayerClient da.Client) {
		if c, ok := daLayerClient.(*DataAvailabilityLayerClient); ok {
			c.httpClient = httpClient
		}
	}
}

// WithPubsubServer sets the server health events are published to.
func WithPubsubServer(pubsubServer *pubsub.Server) da.Option {
	return func(daLayerClient da.Client) {
		if c, ok := daLayerClient.(*DataAvailabilityLayerClient); ok {
			c.pubsubServer = pubsubServer
		}
	}
}

// NewClient creates a Nomos client. It fails if the app id is not 32 bytes of hex, since no retry
// can fix it.
func NewClient(config da.NomosConfig, secrets da.NomosSecrets, logger types.Logger, options ...da.Option) (*DataAvailabilityLayerClient, error) {
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, da.NewPermanent(fmt.Errorf("nomos config: %w: %w", err, gerrc.ErrInvalidArgument))
	}

	appID, err := nomostypes.ParseAppID(config.AppID)
	if err != nil {
		return nil, err
	}

	validators := ParseValidators(config.ValidatorRPCs)
	if len(validators) == 0 {
		return nil, da.NewPermanent(fmt.Errorf("nomos config: no validator rpc: %w", gerrc.ErrInvalidArgument))
	}

	username, password, err := secrets.BasicAuth()
	if err != nil {
		return nil, da.NewPermanent(fmt.Errorf("nomos secrets: %w", err))
	}

	c := &DataAvailabilityLayerClient{
		config:     config,
		appID:      appID,
		validators: validators,
		logger:     logger,
	}
	for _, apply := range options {
		apply(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	c.client = client.NewClient(config.ExecutorRPC, username, password, c.httpClient)

	logger.Info("Nomos client initialized.", "executor", config.ExecutorRPC, "validators", len(validators), "app_id", appID)
	return c, nil
}

// ParseValidators splits a comma separated list of endpoints, keeping their order.
func ParseValidators(s string) []string {
	var validators []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			validators = append(validators, v)
		}
	}
	return validators
}

// PadBlob right pads data with zeros to a multiple of ChunkSize. data is not modified.
func PadBlob(data []byte) []byte {
	padding := nomostypes.ChunkSize - len(data)%nomostypes.ChunkSize
	if padding == nomostypes.ChunkSize {
		padding = 0
	}
	out := make([]byte, len(data)+padding)
	copy(out, data)
	return out
}

// DispatchBlob disperses the data and waits for a validator to include it. The returned id is the
// batch number, not the network blob id.
func (c *DataAvailabilityLayerClient) DispatchBlob(ctx context.Context, batchNumber uint32, data []byte) (*da.DispatchResponse, error) {
	dispatchID := uuid.New().String()

	blob := PadBlob(data)
	request := nomostypes.DispersalRequest{
		Data: blob,
		Metadata: nomostypes.MetaData{
			AppID: c.appID,
			Index: nomostypes.Index{},
		},
	}

	c.logger.Debug("Dispersing blob.", "batch", batchNumber, "size", len(data), "padded_size", len(blob), "dispatch_id", dispatchID)

	blobID, err := c.client.Disperse(ctx, request)
	if err != nil {
		return nil, c.dispatchFailed(ctx, batchNumber, dispatchID, err)
	}

	c.logger.Info("Blob dispersed.", "batch", batchNumber, "blob_id", blobID, "dispatch_id", dispatchID)
	types.DABlobSizeBytesGauge.Set(float64(len(blob)))

	if err := c.confirm(ctx, blobID, dispatchID); err != nil {
		return nil, c.dispatchFailed(ctx, batchNumber, dispatchID, err)
	}

	types.DADispatchCounter.WithLabelValues(string(da.Nomos), "success").Inc()
	types.DAConsecutiveFailedDispatch.Set(0)
	if err := da.PublishHealth(ctx, c.pubsubServer, da.Nomos, nil); err != nil {
		c.logger.Error("Publish health event.", "error", err)
	}

	return &da.DispatchResponse{BlobID: strconv.FormatUint(uint64(batchNumber), 10)}, nil
}

func (c *DataAvailabilityLayerClient) dispatchFailed(ctx context.Context, batchNumber uint32, dispatchID string, err error) error {
	c.logger.Error("Dispatch blob.", "batch", batchNumber, "dispatch_id", dispatchID, "retriable", da.IsRetriable(err), "error", err)

	types.DADispatchCounter.WithLabelValues(string(da.Nomos), "failure").Inc()
	types.DAConsecutiveFailedDispatch.Inc()
	if pubErr := da.PublishHealth(ctx, c.pubsubServer, da.Nomos, err); pubErr != nil {
		c.logger.Error("Publish health event.", "error", pubErr)
	}
	return err
}

// confirm polls the validators, in order, until one of them has the blob in its tip block.
//
// Two clocks bound the loop. Every validator examined counts as a scan, and exceeding
// HardScanLimit scans fails the dispatch. Every walk over the whole list counts as a pass, and
// after SoftPassLimit passes past the first one the loop gives up without error.
func (c *DataAvailabilityLayerClient) confirm(ctx context.Context, blobID nomostypes.BlobID, dispatchID string) error {
	var scans, passes int

	err := retry.Do(
		func() error {
			passes++
			for _, validator := range c.validators {
				found, err := c.scan(ctx, validator, blobID)
				if err != nil {
					return retry.Unrecoverable(err)
				}
				if found {
					c.logger.Info("Blob included.", "blob_id", blobID, "validator", validator, "pass", passes, "dispatch_id", dispatchID)
					return nil
				}

				scans++
				if scans > c.config.HardScanLimit {
					return retry.Unrecoverable(da.NewPermanent(fmt.Errorf("%w: blob %s: scans: %d", da.ErrBlobNotFound, blobID, scans)))
				}
			}
			return errNotIncluded
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.config.SoftPassLimit)+1), //nolint:gosec // SoftPassLimit is validated to be positive
		retry.Delay(c.config.PollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("Waiting for blob inclusion.", "blob_id", blobID, "pass", n+1, "scans", scans, "dispatch_id", dispatchID, "error", err)
		}),
	)

	switch {
	case err == nil:
		types.DAConfirmationPasses.Observe(float64(passes))
		types.DAConfirmationCounter.WithLabelValues("found").Inc()
		return nil
	case errors.Is(err, errNotIncluded):
		// TODO: the give up after SoftPassLimit reports success without having seen the blob. Make
		// it an error once the pipeline handles retriable dispatch failures.
		c.logger.Info("Blob inclusion not observed, giving up.", "blob_id", blobID, "passes", passes, "scans", scans, "dispatch_id", dispatchID)
		types.DAConfirmationCounter.WithLabelValues("timeout").Inc()
		return nil
	case ctx.Err() != nil:
		types.DAConfirmationCounter.WithLabelValues("failed").Inc()
		return da.NewRetriable(fmt.Errorf("confirm blob %s: %w: %w", blobID, gerrc.ErrCancelled, ctx.Err()))
	default:
		types.DAConfirmationCounter.WithLabelValues("failed").Inc()
		return err
	}
}

// scan reports whether the tip block of the validator includes the blob.
func (c *DataAvailabilityLayerClient) scan(ctx context.Context, validator string, blobID nomostypes.BlobID) (bool, error) {
	info, err := c.client.GetInfo(ctx, validator)
	if err != nil {
		return false, err
	}

	block, err := c.client.GetBlock(ctx, validator, info.Tip)
	if err != nil {
		return false, err
	}

	c.logger.Debug("Scanned validator tip.", "validator", validator, "tip", info.Tip, "height", info.Height, "blobs", len(block.Blobs))
	return block.Contains(blobID), nil
}

// EnsureFinality does not check anything, dispatched blobs are reported final right away.
func (c *DataAvailabilityLayerClient) EnsureFinality(_ context.Context, dispatchRequestID string) (*da.FinalityResponse, error) {
	return &da.FinalityResponse{BlobID: dispatchRequestID}, nil
}

// GetInclusionData has no inclusion proof to return.
func (c *DataAvailabilityLayerClient) GetInclusionData(_ context.Context, _ string) (*da.InclusionData, error) {
	return nil, nil
}

func (c *DataAvailabilityLayerClient) Balance(_ context.Context) (uint64, error) {
	return 0, nil
}

func (c *DataAvailabilityLayerClient) ClientType() da.ClientType {
	return da.Nomos
}

func (c *DataAvailabilityLayerClient) BlobSizeLimit() (int, bool) {
	return 0, false
}

// Clone returns a copy sharing the transport.
func (c *DataAvailabilityLayerClient) Clone() da.Client {
	clone := *c
	return &clone
}
