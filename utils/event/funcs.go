package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/tendermint/tendermint/libs/pubsub"
	tmquery "github.com/tendermint/tendermint/libs/pubsub/query"

	"github.com/dymensionxyz/daclient/types"
)

// MustSubscribe subscribes to events and calls back for each of them until ctx is done. The
// subscription is buffered, it is cancelled by the server if the callback falls behind.
// clientID is the subscriber id, see https://pkg.go.dev/github.com/tendermint/tendermint/libs/pubsub#pkg-overview
// - will not panic on context cancel or deadline exceeded
func MustSubscribe(
	ctx context.Context,
	pubsubServer *pubsub.Server,
	clientID string,
	eventQuery pubsub.Query,
	callback func(event pubsub.Message),
	logger types.Logger,
) {
	subscription, err := pubsubServer.Subscribe(ctx, clientID, eventQuery)
	if err != nil {
		err = fmt.Errorf("subscribe: %w", err)
		if !errors.Is(err, context.Canceled) {
			logger.Error("Must subscribe.", "err", err)
			panic(err)
		}
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-subscription.Out():
			callback(event)
		case <-subscription.Cancelled():
			logger.Error("subscription cancelled", "clientID", clientID)
			return
		}
	}
}

// QueryFor returns a query for the given event.
func QueryFor(eventTypeKey, eventType string) pubsub.Query {
	return tmquery.MustParse(fmt.Sprintf("%s='%s'", eventTypeKey, eventType))
}
