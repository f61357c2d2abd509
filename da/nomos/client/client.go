package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dymensionxyz/gerr-cosmos/gerrc"

	"github.com/dymensionxyz/daclient/da"
	nomostypes "github.com/dymensionxyz/daclient/da/nomos/types"
)

const (
	DispersePath = "/disperse-data"
	InfoPath     = "/cryptarchia/info"
	BlockPath    = "/storage/block"
)

var (
	errBuildRequest = errors.New("build request")
	errTransport    = fmt.Errorf("send request: %w", gerrc.ErrUnavailable)
	errStatus       = fmt.Errorf("unexpected status: %w", gerrc.ErrUnavailable)
)

// Client handles HTTP interactions with a Nomos executor and its validators. All calls use basic
// authentication. Errors are *da.Error with the retriable flag set per call.
type Client struct {
	executorURL string
	username    string
	password    string
	httpClient  *http.Client
}

// NewClient creates a new Nomos client instance. httpClient is shared by every copy of the client.
func NewClient(executorURL, username, password string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		executorURL: strings.TrimRight(executorURL, "/"),
		username:    username,
		password:    password,
		httpClient:  httpClient,
	}
}

// Disperse submits a dispersal request to the executor and returns the blob id assigned to it.
// An unparsable id is retriable: the blob may have been dispersed anyway.
func (c *Client) Disperse(ctx context.Context, request nomostypes.DispersalRequest) (nomostypes.BlobID, error) {
	body, err := c.do(ctx, http.MethodPost, c.executorURL+DispersePath, request)
	switch {
	case errors.Is(err, errBuildRequest):
		return nomostypes.BlobID{}, da.NewPermanent(fmt.Errorf("disperse: %w", err))
	case err != nil:
		return nomostypes.BlobID{}, da.NewRetriable(fmt.Errorf("disperse: %w", err))
	}

	var id nomostypes.BlobID
	if err := json.Unmarshal(body, &id); err != nil {
		return nomostypes.BlobID{}, da.NewRetriable(fmt.Errorf("disperse: parse blob id: %w", err))
	}
	return id, nil
}

// GetInfo returns the validator's view of the chain tip. Any failure is retriable.
func (c *Client) GetInfo(ctx context.Context, validatorURL string) (*nomostypes.CryptarchiaInfo, error) {
	body, err := c.do(ctx, http.MethodGet, strings.TrimRight(validatorURL, "/")+InfoPath, nil)
	if err != nil {
		return nil, da.NewRetriable(fmt.Errorf("get cryptarchia info: %w", err))
	}

	var info nomostypes.CryptarchiaInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, da.NewRetriable(fmt.Errorf("get cryptarchia info: parse: %w", err))
	}
	return &info, nil
}

// GetBlock returns the block with the given header id. Failing to fetch the block is permanent as
// the tip block is final, failing to parse it is retriable.
func (c *Client) GetBlock(ctx context.Context, validatorURL string, id nomostypes.HeaderID) (*nomostypes.Block, error) {
	body, err := c.do(ctx, http.MethodPost, strings.TrimRight(validatorURL, "/")+BlockPath, id)
	if err != nil {
		return nil, da.NewPermanent(fmt.Errorf("get block %s: %w", id, err))
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, da.NewPermanent(fmt.Errorf("get block %s: %w", id, gerrc.ErrNotFound))
	}

	// A block that was fetched but does not parse stays retriable, including a missing bl_blobs.
	// Only fetch failures above are permanent.
	var block nomostypes.Block
	if err := json.Unmarshal(trimmed, &block); err != nil {
		return nil, da.NewRetriable(fmt.Errorf("get block %s: parse: %w", id, err))
	}
	return &block, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		bz, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: marshal: %v", errBuildRequest, err)
		}
		reqBody = bytes.NewReader(bz)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBuildRequest, err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errTransport, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", errTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d: %s", errStatus, resp.StatusCode, string(body))
	}

	return body, nil
}
