// Package push delivers assignment payloads to driver sessions over Redis
// pub/sub. Each driver has a channel named driver:<id>; whichever service
// replica holds the driver's websocket subscribes to it and forwards messages.
// Delivery is at-most-once: nobody listening means the message is gone, and
// callers never treat that as an error.
package push

import (
	"context"
	"encoding/json"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// ChannelFor returns the pub/sub channel carrying the driver's assignments.
// The websocket endpoint subscribes with the same naming.
func ChannelFor(driverID kernel.UUID) string {
	return "driver:" + driverID.String()
}

// RedisDriverNotifier implements ports.DriverNotifier on Redis pub/sub.
type RedisDriverNotifier struct {
	client redis.UniversalClient
	logger *slog.Logger
}

// NewRedisDriverNotifier creates a notifier publishing on the given client.
func NewRedisDriverNotifier(client redis.UniversalClient, logger *slog.Logger) *RedisDriverNotifier {
	return &RedisDriverNotifier{
		client: client,
		logger: logger.With("component", "driver_notifier"),
	}
}

// Send publishes the payload to the driver's channel. Failures are logged and
// swallowed; the assignment itself is already committed and the driver will
// see it on the next status check.
func (n *RedisDriverNotifier) Send(ctx context.Context, driverID kernel.UUID, payload ports.AssignmentPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("marshal assignment payload",
			"driverId", driverID.String(), "error", err)
		return
	}

	if err := n.client.Publish(ctx, ChannelFor(driverID), data).Err(); err != nil {
		n.logger.Error("publish assignment",
			"driverId", driverID.String(), "orderId", payload.OrderID.String(), "error", err)
	}
}
