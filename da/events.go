package da

import (
	"context"

	tmpubsub "github.com/tendermint/tendermint/libs/pubsub"

	"github.com/dymensionxyz/daclient/utils/event"
)

// EventTypeKey is a reserved composite key for event name.
const EventTypeKey = "da.event"

const (
	EventDAHealthStatus = "DAHealthStatus"
)

var HealthStatus = map[string][]string{EventTypeKey: {EventDAHealthStatus}}

type EventDataHealth struct {
	// Client is the backend that reported the status.
	Client ClientType
	// Error is the error that was encountered in case of a health check failure, nil implies healthy
	Error error
}

var EventQueryDAHealthStatus = QueryForEvent(EventDAHealthStatus)

// QueryForEvent returns a query for the given event.
func QueryForEvent(eventType string) tmpubsub.Query {
	return event.QueryFor(EventTypeKey, eventType)
}

// PublishHealth publishes the outcome of a dispatch. A nil server is a no-op.
func PublishHealth(ctx context.Context, pubsubServer *tmpubsub.Server, client ClientType, err error) error {
	if pubsubServer == nil {
		return nil
	}
	return pubsubServer.PublishWithEvents(ctx, &EventDataHealth{Client: client, Error: err}, HealthStatus)
}
