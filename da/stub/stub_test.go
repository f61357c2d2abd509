package stub_test

import (
	"context"
	"testing"

	"github.com/dymensionxyz/gerr-cosmos/gerrc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dymensionxyz/daclient/da"
	"github.com/dymensionxyz/daclient/da/stub"
)

func TestLayer(t *testing.T) {
	ctx := context.Background()
	for _, clientType := range []da.ClientType{da.Avail, da.Celestia, da.Eigen} {
		t.Run(string(clientType), func(t *testing.T) {
			l := stub.NewLayer(clientType)
			assert.Equal(t, clientType, l.ClientType())
			assert.Equal(t, clientType, l.Clone().ClientType())

			_, err := l.DispatchBlob(ctx, 1, []byte("x"))
			require.ErrorIs(t, err, gerrc.ErrUnimplemented)
			assert.False(t, da.IsRetriable(err))

			_, err = l.GetInclusionData(ctx, "1")
			require.ErrorIs(t, err, da.ErrUnsupported)

			_, err = l.Balance(ctx)
			require.ErrorIs(t, err, da.ErrUnsupported)

			finality, err := l.EnsureFinality(ctx, "1")
			require.NoError(t, err)
			assert.Equal(t, "1", finality.BlobID)
		})
	}
}
