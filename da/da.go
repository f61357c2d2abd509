package da

import (
	"context"
)

// ClientType identifies a DA backend.
type ClientType string

// Data availability clients
const (
	Avail       ClientType = "avail"
	Celestia    ClientType = "celestia"
	Eigen       ClientType = "eigen"
	Nomos       ClientType = "nomos"
	ObjectStore ClientType = "object_store"
	NoDA        ClientType = "no_da"
)

// Blob is the data submitted/received from DA interface.
type Blob = []byte

// DispatchResponse is returned by DispatchBlob. BlobID is the caller-facing correlation id, its
// meaning is backend specific.
type DispatchResponse struct {
	BlobID string
}

// FinalityResponse is returned by EnsureFinality once a dispatched blob is final.
type FinalityResponse struct {
	BlobID string
}

// InclusionData holds the proof that a blob was included in the DA network.
type InclusionData struct {
	Data []byte
}

// Client defines the generic interface every DA backend implements.
//
// Every error returned by a Client is, or wraps, an *Error. Callers must check IsRetriable before
// resubmitting.
type Client interface {
	// DispatchBlob submits the data of a batch to the DA layer.
	DispatchBlob(ctx context.Context, batchNumber uint32, data []byte) (*DispatchResponse, error)

	// EnsureFinality reports whether a previous dispatch became final. A nil response means it is
	// not final yet.
	EnsureFinality(ctx context.Context, dispatchRequestID string) (*FinalityResponse, error)

	// GetInclusionData fetches the inclusion proof of a blob. A nil response means there is no data
	// for this id.
	GetInclusionData(ctx context.Context, blobID string) (*InclusionData, error)

	// Balance returns the account balance with the DA network, zero if not applicable.
	Balance(ctx context.Context) (uint64, error)

	ClientType() ClientType

	// BlobSizeLimit returns the maximum payload size accepted by the backend. ok is false when there
	// is no limit.
	BlobSizeLimit() (limit int, ok bool)

	// Clone returns an independent handle sharing the underlying transport and configuration.
	Clone() Client
}

// Option configures a Client at construction. Options meant for another backend are ignored.
type Option func(Client)
