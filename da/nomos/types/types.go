package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/dymensionxyz/daclient/da"
	"github.com/dymensionxyz/daclient/utils/fixedbytes"
)

const (
	AppIDSize    = 32
	IndexSize    = 8
	BlobIDSize   = 32
	HeaderIDSize = 32

	// ChunkSize is the field element size of the network, dispersed data is a multiple of it.
	ChunkSize = 31
)

// AppID is the namespace of the blobs of a rollup.
type AppID [AppIDSize]byte

// ParseAppID decodes a hex encoded namespace. It must be exactly 32 bytes long.
func ParseAppID(s string) (AppID, error) {
	var id AppID
	if err := fixedbytes.UnmarshalText(id[:], []byte(s)); err != nil {
		return AppID{}, da.NewPermanent(fmt.Errorf("%w: %v", da.ErrInvalidAppID, err))
	}
	return id, nil
}

func (a AppID) String() string {
	return hex.EncodeToString(a[:])
}

func (a AppID) MarshalJSON() ([]byte, error) {
	return fixedbytes.MarshalJSONArray(a[:])
}

func (a *AppID) UnmarshalJSON(data []byte) error {
	return fixedbytes.UnmarshalJSON(a[:], data)
}

func (a AppID) MarshalBinary() ([]byte, error) {
	return fixedbytes.MarshalBinary(a[:])
}

func (a *AppID) UnmarshalBinary(data []byte) error {
	return fixedbytes.UnmarshalBinary(a[:], data)
}

// Index is the position of a blob within its namespace. It is always zero for this client.
type Index [IndexSize]byte

func (i Index) MarshalJSON() ([]byte, error) {
	return fixedbytes.MarshalJSONArray(i[:])
}

func (i *Index) UnmarshalJSON(data []byte) error {
	return fixedbytes.UnmarshalJSON(i[:], data)
}

func (i Index) MarshalBinary() ([]byte, error) {
	return fixedbytes.MarshalBinary(i[:])
}

func (i *Index) UnmarshalBinary(data []byte) error {
	return fixedbytes.UnmarshalBinary(i[:], data)
}

// MetaData is attached to every dispersed blob.
type MetaData struct {
	AppID AppID `json:"app_id"`
	Index Index `json:"index"`
}

// BlobID is assigned by the executor when a blob is dispersed.
type BlobID [BlobIDSize]byte

func (b BlobID) String() string {
	return hex.EncodeToString(b[:])
}

func (b BlobID) MarshalText() ([]byte, error) {
	return fixedbytes.MarshalText(b[:])
}

func (b *BlobID) UnmarshalText(text []byte) error {
	return fixedbytes.UnmarshalText(b[:], text)
}

func (b *BlobID) UnmarshalJSON(data []byte) error {
	return fixedbytes.UnmarshalJSON(b[:], data)
}

func (b BlobID) MarshalBinary() ([]byte, error) {
	return fixedbytes.MarshalBinary(b[:])
}

func (b *BlobID) UnmarshalBinary(data []byte) error {
	return fixedbytes.UnmarshalBinary(b[:], data)
}

// HeaderID identifies a block header.
type HeaderID [HeaderIDSize]byte

func (h HeaderID) String() string {
	return hex.EncodeToString(h[:])
}

func (h HeaderID) MarshalText() ([]byte, error) {
	return fixedbytes.MarshalText(h[:])
}

func (h *HeaderID) UnmarshalText(text []byte) error {
	return fixedbytes.UnmarshalText(h[:], text)
}

func (h *HeaderID) UnmarshalJSON(data []byte) error {
	return fixedbytes.UnmarshalJSON(h[:], data)
}

func (h HeaderID) MarshalBinary() ([]byte, error) {
	return fixedbytes.MarshalBinary(h[:])
}

func (h *HeaderID) UnmarshalBinary(data []byte) error {
	return fixedbytes.UnmarshalBinary(h[:], data)
}

// CryptarchiaInfo is a validator's view of the chain.
type CryptarchiaInfo struct {
	Tip    HeaderID `json:"tip"`
	Slot   uint64   `json:"slot"`
	Height uint64   `json:"height"`
}

// DispersalRequest is the body sent to the executor.
type DispersalRequest struct {
	Data     []byte
	Metadata MetaData
}

func (r DispersalRequest) MarshalJSON() ([]byte, error) {
	data, err := fixedbytes.MarshalJSONArray(r.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Data     json.RawMessage `json:"data"`
		Metadata MetaData        `json:"metadata"`
	}{
		Data:     data,
		Metadata: r.Metadata,
	})
}

// BlobInfo references a blob included in a block.
type BlobInfo struct {
	ID       BlobID   `json:"id"`
	MetaData MetaData `json:"metadata"`
}

// Block is a validator block. Transactions and Blobs keep their order and hold no duplicates.
type Block struct {
	Header       json.RawMessage   `json:"header"`
	Transactions []json.RawMessage `json:"cl_transactions"`
	Blobs        []BlobInfo        `json:"bl_blobs"`
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var fields struct {
		Blobs json.RawMessage `json:"bl_blobs"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields.Blobs) == 0 || string(fields.Blobs) == "null" {
		return fmt.Errorf("block has no bl_blobs array")
	}

	type block Block
	var raw block
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	seenTxs := make(map[string]struct{}, len(raw.Transactions))
	txs := raw.Transactions[:0]
	for _, tx := range raw.Transactions {
		if _, ok := seenTxs[string(tx)]; ok {
			continue
		}
		seenTxs[string(tx)] = struct{}{}
		txs = append(txs, tx)
	}

	seenBlobs := make(map[BlobInfo]struct{}, len(raw.Blobs))
	blobs := raw.Blobs[:0]
	for _, blob := range raw.Blobs {
		if _, ok := seenBlobs[blob]; ok {
			continue
		}
		seenBlobs[blob] = struct{}{}
		blobs = append(blobs, blob)
	}

	raw.Transactions = txs
	raw.Blobs = blobs
	*b = Block(raw)
	return nil
}

// Contains reports whether the block includes the blob.
func (b *Block) Contains(id BlobID) bool {
	for _, blob := range b.Blobs {
		if blob.ID == id {
			return true
		}
	}
	return false
}
