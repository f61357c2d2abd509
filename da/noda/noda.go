// Package noda implements a DA client for deployments that publish no data.
package noda

import (
	"context"

	"github.com/dymensionxyz/daclient/da"
)

type DataAvailabilityLayerClient struct{}

var _ da.Client = DataAvailabilityLayerClient{}

func NewClient() DataAvailabilityLayerClient {
	return DataAvailabilityLayerClient{}
}

// DispatchBlob drops the data and returns an empty id.
func (DataAvailabilityLayerClient) DispatchBlob(context.Context, uint32, []byte) (*da.DispatchResponse, error) {
	return &da.DispatchResponse{}, nil
}

func (DataAvailabilityLayerClient) EnsureFinality(_ context.Context, dispatchRequestID string) (*da.FinalityResponse, error) {
	return &da.FinalityResponse{BlobID: dispatchRequestID}, nil
}

func (DataAvailabilityLayerClient) GetInclusionData(context.Context, string) (*da.InclusionData, error) {
	return &da.InclusionData{}, nil
}

func (DataAvailabilityLayerClient) Balance(context.Context) (uint64, error) {
	return 0, nil
}

func (DataAvailabilityLayerClient) ClientType() da.ClientType {
	return da.NoDA
}

func (DataAvailabilityLayerClient) BlobSizeLimit() (int, bool) {
	return 0, false
}

func (c DataAvailabilityLayerClient) Clone() da.Client {
	return c
}
