package nomos_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/libs/pubsub"

	"github.com/dymensionxyz/daclient/da"
	"github.com/dymensionxyz/daclient/da/nomos"
	nomostypes "github.com/dymensionxyz/daclient/da/nomos/types"
)

const (
	testUsername = "user"
	testPassword = "secret"
)

var (
	testAppID  = strings.Repeat("ab", 32)
	testBlobID = nomostypes.BlobID{1, 2, 3, 4}
	otherBlob  = nomostypes.BlobID{9, 9, 9}
)

type executor struct {
	*httptest.Server
	calls   atomic.Int32
	status  int
	request []byte
}

func newExecutor(t *testing.T, status int) *executor {
	e := &executor{status: status}
	e.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.calls.Add(1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != testUsername || pass != testPassword {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodPost || r.URL.Path != "/disperse-data" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		e.request = buf.Bytes()
		if e.status != http.StatusOK {
			w.WriteHeader(e.status)
			return
		}
		_, _ = fmt.Fprintf(w, "%q", testBlobID.String())
	}))
	t.Cleanup(e.Close)
	return e
}

type validator struct {
	*httptest.Server
	infoCalls  atomic.Int32
	blockCalls atomic.Int32
	infoStatus int
	// block is the body served for the tip, when empty a block holding blobs is served.
	block string
	blobs []nomostypes.BlobID
}

var testTip = nomostypes.HeaderID{7, 7, 7}

func newValidator(t *testing.T, blobs ...nomostypes.BlobID) *validator {
	v := &validator{infoStatus: http.StatusOK, blobs: blobs}
	v.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != testUsername || pass != testPassword {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/cryptarchia/info":
			v.infoCalls.Add(1)
			if v.infoStatus != http.StatusOK {
				w.WriteHeader(v.infoStatus)
				return
			}
			_, _ = fmt.Fprintf(w, `{"tip":%q,"slot":10,"height":5}`, testTip.String())
		case "/storage/block":
			v.blockCalls.Add(1)
			var tip nomostypes.HeaderID
			if err := json.NewDecoder(r.Body).Decode(&tip); err != nil || tip != testTip {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if v.block != "" {
				_, _ = w.Write([]byte(v.block))
				return
			}
			blobs := make([]nomostypes.BlobInfo, 0, len(v.blobs))
			for _, id := range v.blobs {
				blobs = append(blobs, nomostypes.BlobInfo{ID: id})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"header":          map[string]any{"slot": 10},
				"cl_transactions": []any{},
				"bl_blobs":        blobs,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(v.Close)
	return v
}

func newClient(t *testing.T, executorURL string, validators []*validator, opts ...da.Option) *nomos.DataAvailabilityLayerClient {
	t.Helper()
	urls := make([]string, 0, len(validators))
	for _, v := range validators {
		urls = append(urls, v.URL)
	}
	config := da.NomosConfig{
		AppID:         testAppID,
		ExecutorRPC:   executorURL,
		ValidatorRPCs: strings.Join(urls, ", "),
		PollInterval:  time.Millisecond,
	}
	secrets := da.NomosSecrets{Username: testUsername, Password: testPassword}

	client, err := nomos.NewClient(config, secrets, log.TestingLogger(), opts...)
	require.NoError(t, err)
	return client
}

func TestPadBlob(t *testing.T) {
	testCases := []struct {
		name     string
		size     int
		expected int
	}{
		{"empty", 0, 0},
		{"one byte", 1, 31},
		{"one chunk", 31, 31},
		{"one chunk and a byte", 32, 62},
		{"two chunks", 62, 62},
		{"large", 1000, 1023},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := bytes.Repeat([]byte{0xff}, tc.size)
			original := bytes.Clone(data)

			padded := nomos.PadBlob(data)

			require.Len(t, padded, tc.expected)
			assert.Equal(t, original, data, "input must not be modified")
			assert.Equal(t, data, padded[:tc.size])
			assert.Equal(t, make([]byte, tc.expected-tc.size), padded[tc.size:])
		})
	}
}

func TestNewClient(t *testing.T) {
	base := da.NomosConfig{
		AppID:         testAppID,
		ExecutorRPC:   "http://executor",
		ValidatorRPCs: "http://v1",
	}
	secrets := da.NomosSecrets{Username: testUsername, Password: testPassword}

	t.Run("invalid app id", func(t *testing.T) {
		for _, appID := range []string{"zz", strings.Repeat("ab", 31), strings.Repeat("g", 64)} {
			config := base
			config.AppID = appID
			_, err := nomos.NewClient(config, secrets, log.TestingLogger())
			require.ErrorIs(t, err, da.ErrInvalidAppID)
			assert.False(t, da.IsRetriable(err))
		}
	})

	t.Run("prefixed app id", func(t *testing.T) {
		config := base
		config.AppID = "0x" + testAppID
		_, err := nomos.NewClient(config, secrets, log.TestingLogger())
		require.NoError(t, err)
	})

	t.Run("no validators", func(t *testing.T) {
		config := base
		config.ValidatorRPCs = " , "
		_, err := nomos.NewClient(config, secrets, log.TestingLogger())
		require.Error(t, err)
		assert.False(t, da.IsRetriable(err))
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := nomos.NewClient(base, da.NomosSecrets{Username: testUsername}, log.TestingLogger())
		require.Error(t, err)
	})
}

func TestParseValidators(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, nomos.ParseValidators(" http://a,, http://b ,"))
	assert.Empty(t, nomos.ParseValidators(""))
}

func TestDispatchBlob(t *testing.T) {
	exec := newExecutor(t, http.StatusOK)
	v := newValidator(t, otherBlob, testBlobID)
	client := newClient(t, exec.URL, []*validator{v})

	resp, err := client.DispatchBlob(context.Background(), 7, []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "7", resp.BlobID)
	assert.EqualValues(t, 1, v.infoCalls.Load())
	assert.EqualValues(t, 1, v.blockCalls.Load())

	var request struct {
		Data     []int `json:"data"`
		Metadata struct {
			AppID []int `json:"app_id"`
			Index []int `json:"index"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(exec.request, &request))
	require.Len(t, request.Data, 31)
	assert.Equal(t, []int{1, 2, 3}, request.Data[:3])
	require.Len(t, request.Metadata.AppID, 32)
	assert.Equal(t, 0xab, request.Metadata.AppID[0])
	assert.Equal(t, make([]int, 8), request.Metadata.Index)
}

func TestDispatchBlobMatchEndsLoop(t *testing.T) {
	exec := newExecutor(t, http.StatusOK)
	v1 := newValidator(t)
	v2 := newValidator(t, testBlobID)
	v3 := newValidator(t)
	client := newClient(t, exec.URL, []*validator{v1, v2, v3})

	_, err := client.DispatchBlob(context.Background(), 1, []byte("data"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, v1.infoCalls.Load())
	assert.EqualValues(t, 1, v2.infoCalls.Load())
	assert.Zero(t, v3.infoCalls.Load())
}

func TestDispatchBlobExecutorUnavailable(t *testing.T) {
	exec := newExecutor(t, http.StatusServiceUnavailable)
	v := newValidator(t, testBlobID)
	client := newClient(t, exec.URL, []*validator{v})

	resp, err := client.DispatchBlob(context.Background(), 1, []byte("data"))
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, da.IsRetriable(err))
	assert.Zero(t, v.infoCalls.Load())
}

func TestDispatchBlobInvalidExecutorURL(t *testing.T) {
	v := newValidator(t, testBlobID)
	client := newClient(t, "http://exa mple", []*validator{v})

	resp, err := client.DispatchBlob(context.Background(), 1, []byte("data"))
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.False(t, da.IsRetriable(err))
	assert.Zero(t, v.infoCalls.Load())
}

func TestDispatchBlobHardScanLimit(t *testing.T) {
	exec := newExecutor(t, http.StatusOK)
	validators := []*validator{newValidator(t), newValidator(t), newValidator(t), newValidator(t)}
	client := newClient(t, exec.URL, validators)

	_, err := client.DispatchBlob(context.Background(), 1, []byte("data"))
	require.ErrorIs(t, err, da.ErrBlobNotFound)
	assert.False(t, da.IsRetriable(err))

	var scans int32
	for _, v := range validators {
		scans += v.infoCalls.Load()
	}
	assert.EqualValues(t, da.DefaultHardScanLimit+1, scans)
}

func TestDispatchBlobSoftPassLimit(t *testing.T) {
	exec := newExecutor(t, http.StatusOK)
	v := newValidator(t, otherBlob)
	client := newClient(t, exec.URL, []*validator{v})

	resp, err := client.DispatchBlob(context.Background(), 3, []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "3", resp.BlobID)
	assert.EqualValues(t, da.DefaultSoftPassLimit+1, v.infoCalls.Load())
}

func TestDispatchBlobValidatorFailures(t *testing.T) {
	testCases := []struct {
		name       string
		infoStatus int
		block      string
		retriable  bool
	}{
		{"tip unavailable", http.StatusServiceUnavailable, "", true},
		{"block not found", http.StatusOK, "null", false},
		{"block without blobs", http.StatusOK, `{"header":{},"cl_transactions":[]}`, true},
		{"block malformed", http.StatusOK, `{"bl_blobs":"oops"}`, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			exec := newExecutor(t, http.StatusOK)
			v1 := newValidator(t)
			v1.infoStatus = tc.infoStatus
			v1.block = tc.block
			v2 := newValidator(t, testBlobID)
			client := newClient(t, exec.URL, []*validator{v1, v2})

			_, err := client.DispatchBlob(context.Background(), 1, []byte("data"))
			require.Error(t, err)
			assert.Equal(t, tc.retriable, da.IsRetriable(err))
			assert.Zero(t, v2.infoCalls.Load(), "dispatch stops at the first failure")
		})
	}
}

func TestDispatchBlobContextCanceled(t *testing.T) {
	exec := newExecutor(t, http.StatusOK)
	v := newValidator(t, testBlobID)
	client := newClient(t, exec.URL, []*validator{v})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.DispatchBlob(ctx, 1, []byte("data"))
	require.Error(t, err)
	assert.True(t, da.IsRetriable(err))
}

func TestDispatchBlobPublishesHealth(t *testing.T) {
	pubsubServer := pubsub.NewServer()
	require.NoError(t, pubsubServer.Start())
	t.Cleanup(func() { _ = pubsubServer.Stop() })

	sub, err := pubsubServer.Subscribe(context.Background(), "test", da.EventQueryDAHealthStatus, 2)
	require.NoError(t, err)

	exec := newExecutor(t, http.StatusServiceUnavailable)
	client := newClient(t, exec.URL, []*validator{newValidator(t)}, nomos.WithPubsubServer(pubsubServer))

	_, err = client.DispatchBlob(context.Background(), 1, []byte("data"))
	require.Error(t, err)

	select {
	case msg := <-sub.Out():
		event, ok := msg.Data().(*da.EventDataHealth)
		require.True(t, ok)
		assert.Equal(t, da.Nomos, event.Client)
		assert.Error(t, event.Error)
	case <-time.After(time.Second):
		t.Fatal("no health event")
	}
}

func TestTrivialOperations(t *testing.T) {
	client := newClient(t, "http://executor", []*validator{newValidator(t)})
	ctx := context.Background()

	finality, err := client.EnsureFinality(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", finality.BlobID)

	inclusion, err := client.GetInclusionData(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, inclusion)

	balance, err := client.Balance(ctx)
	require.NoError(t, err)
	assert.Zero(t, balance)

	_, ok := client.BlobSizeLimit()
	assert.False(t, ok)
	assert.Equal(t, da.Nomos, client.ClientType())
}

func TestClone(t *testing.T) {
	exec := newExecutor(t, http.StatusOK)
	v := newValidator(t, testBlobID)
	client := newClient(t, exec.URL, []*validator{v}, nomos.WithHTTPClient(&http.Client{Timeout: time.Second}))

	clone := client.Clone()
	require.NotSame(t, client, clone)
	assert.Equal(t, da.Nomos, clone.ClientType())

	resp, err := clone.DispatchBlob(context.Background(), 2, []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "2", resp.BlobID)
}
