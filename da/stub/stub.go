// Package stub provides a client for DA networks whose protocol is not implemented. It only
// reports its type, every network operation fails permanently.
package stub

import (
	"context"
	"fmt"

	"github.com/dymensionxyz/daclient/da"
)

var _ da.Client = &Layer{}

type Layer struct {
	clientType da.ClientType
}

func NewLayer(clientType da.ClientType) *Layer {
	return &Layer{clientType: clientType}
}

func (l *Layer) unsupported(op string) error {
	return da.NewPermanent(fmt.Errorf("%s: %s: %w", l.clientType, op, da.ErrUnsupported))
}

func (l *Layer) DispatchBlob(context.Context, uint32, []byte) (*da.DispatchResponse, error) {
	return nil, l.unsupported("dispatch blob")
}

func (l *Layer) EnsureFinality(_ context.Context, dispatchRequestID string) (*da.FinalityResponse, error) {
	return &da.FinalityResponse{BlobID: dispatchRequestID}, nil
}

func (l *Layer) GetInclusionData(context.Context, string) (*da.InclusionData, error) {
	return nil, l.unsupported("get inclusion data")
}

func (l *Layer) Balance(context.Context) (uint64, error) {
	return 0, l.unsupported("balance")
}

func (l *Layer) ClientType() da.ClientType {
	return l.clientType
}

func (l *Layer) BlobSizeLimit() (int, bool) {
	return 0, false
}

func (l *Layer) Clone() da.Client {
	return &Layer{clientType: l.clientType}
}
