package registry

import (
	"fmt"
	"sort"

	errorsmod "cosmossdk.io/errors"
	"github.com/dymensionxyz/gerr-cosmos/gerrc"

	"github.com/dymensionxyz/daclient/da"
	"github.com/dymensionxyz/daclient/da/noda"
	"github.com/dymensionxyz/daclient/da/nomos"
	"github.com/dymensionxyz/daclient/da/objectstore"
	"github.com/dymensionxyz/daclient/da/stub"
	"github.com/dymensionxyz/daclient/types"
)

type constructor func(cfg da.ClientConfig, secrets da.Secrets, logger types.Logger, opts ...da.Option) (da.Client, error)

func stubClient(clientType da.ClientType) constructor {
	return func(da.ClientConfig, da.Secrets, types.Logger, ...da.Option) (da.Client, error) {
		return stub.NewLayer(clientType), nil
	}
}

// this is a central registry for all Data Availability Layer Clients
var clients = map[da.ClientType]constructor{
	da.Avail:    stubClient(da.Avail),
	da.Celestia: stubClient(da.Celestia),
	da.Eigen:    stubClient(da.Eigen),
	da.Nomos: func(cfg da.ClientConfig, secrets da.Secrets, logger types.Logger, opts ...da.Option) (da.Client, error) {
		var nomosSecrets da.NomosSecrets
		if secrets.Nomos != nil {
			nomosSecrets = *secrets.Nomos
		}
		client, err := nomos.NewClient(*cfg.Nomos, nomosSecrets, logger, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	},
	da.ObjectStore: func(cfg da.ClientConfig, _ da.Secrets, logger types.Logger, _ ...da.Option) (da.Client, error) {
		client, err := objectstore.NewClient(*cfg.ObjectStore, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	},
	da.NoDA: func(da.ClientConfig, da.Secrets, types.Logger, ...da.Option) (da.Client, error) {
		return noda.NewClient(), nil
	},
}

// NewClient builds the client selected by cfg. Options meant for other backends are ignored.
func NewClient(cfg da.ClientConfig, secrets da.Secrets, logger types.Logger, opts ...da.Option) (da.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, da.NewPermanent(errorsmod.Wrapf(gerrc.ErrInvalidArgument, "da config: %v", err))
	}

	newClient, ok := clients[cfg.Client]
	if !ok {
		return nil, da.NewPermanent(fmt.Errorf("da client: %s: %w", cfg.Client, gerrc.ErrNotFound))
	}

	client, err := newClient(cfg, secrets, logger, opts...)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "new %s client", cfg.Client)
	}
	logger.Info("DA client created.", "client", client.ClientType())
	return client, nil
}

// RegisteredClients returns the types of all DA clients in registry, sorted.
func RegisteredClients() []da.ClientType {
	registered := make([]da.ClientType, 0, len(clients))
	for clientType := range clients {
		registered = append(registered, clientType)
	}
	sort.Slice(registered, func(i, j int) bool { return registered[i] < registered[j] })
	return registered
}
