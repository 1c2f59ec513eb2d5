// Package redisbroker implements the dispatch broker on Redis. Driver
// availability, shifts, the idle-order queue, delivery-attempt counters, and
// the upload-ticket index all live in one Redis instance shared by every
// service replica, so assignment decisions never depend on in-process state.
//
// Structures:
//
//	dispatch:available           list  FIFO of driver ids eligible for work
//	dispatch:busy                set   driver ids serving a delivery
//	dispatch:shift               set   driver ids on duty
//	dispatch:idle_ready_orders   list  FIFO of ready orders with no driver
//	dispatch:delivery_attempts:* string counter with TTL window
//	dispatch:upload_ticket:*     string cancellation id, with TTL
//
// Multi-step transitions run as Lua scripts so the available/busy invariant
// holds under concurrent callers.
package redisbroker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

const (
	availableKey  = "dispatch:available"
	busyKey       = "dispatch:busy"
	shiftKey      = "dispatch:shift"
	idleOrdersKey = "dispatch:idle_ready_orders"

	attemptsKeyPrefix = "dispatch:delivery_attempts:"
	ticketKeyPrefix   = "dispatch:upload_ticket:"
)

// popAvailableNotBusy pops the head of the available queue and marks it busy,
// unless the head is somehow already busy, in which case the stale entry is
// dropped and no driver is handed out.
var popAvailableNotBusyScript = redis.NewScript(`
local id = redis.call('LPOP', KEYS[1])
if not id then
  return false
end
if redis.call('SISMEMBER', KEYS[2], id) == 1 then
  return false
end
redis.call('SADD', KEYS[2], id)
return id
`)

// claimDriver removes the driver from available and marks it busy in one step.
var claimDriverScript = redis.NewScript(`
redis.call('LREM', KEYS[1], 0, ARGV[1])
redis.call('SADD', KEYS[2], ARGV[1])
return 1
`)

// releaseDriver unmarks busy and re-queues on available without duplicates.
var releaseDriverScript = redis.NewScript(`
redis.call('SREM', KEYS[2], ARGV[1])
if redis.call('LPOS', KEYS[1], ARGV[1]) == false then
  redis.call('RPUSH', KEYS[1], ARGV[1])
end
return 1
`)

// addAvailable enqueues unless already queued.
var addAvailableScript = redis.NewScript(`
if redis.call('LPOS', KEYS[1], ARGV[1]) == false then
  redis.call('RPUSH', KEYS[1], ARGV[1])
end
return 1
`)

// incrAttempts counts one attempt and arms the window TTL on first use.
var incrAttemptsScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// RedisDispatchBroker implements ports.DispatchBroker on go-redis.
type RedisDispatchBroker struct {
	client redis.UniversalClient
}

// NewRedisDispatchBroker creates a broker on the given Redis client.
func NewRedisDispatchBroker(client redis.UniversalClient) *RedisDispatchBroker {
	return &RedisDispatchBroker{client: client}
}

// PopAvailableNotBusy atomically hands out the longest-waiting available
// driver and marks it busy. Returns (zero UUID, false) when the queue is
// empty or its head was stale.
func (b *RedisDispatchBroker) PopAvailableNotBusy(ctx context.Context) (kernel.UUID, bool, error) {
	raw, err := popAvailableNotBusyScript.Run(ctx, b.client, []string{availableKey, busyKey}).Text()
	if errors.Is(err, redis.Nil) {
		return kernel.UUID{}, false, nil
	}
	if err != nil {
		return kernel.UUID{}, false, fmt.Errorf("pop available driver: %w", err)
	}

	driverID, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, false, err
	}

	return driverID, true, nil
}

// ClaimDriver atomically moves the driver from available to busy. Claiming an
// already busy driver is a no-op.
func (b *RedisDispatchBroker) ClaimDriver(ctx context.Context, driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	err := claimDriverScript.Run(ctx, b.client,
		[]string{availableKey, busyKey}, driverID.String()).Err()
	if err != nil {
		return fmt.Errorf("claim driver %s: %w", driverID, err)
	}
	return nil
}

// ReleaseDriver atomically unmarks the driver busy and re-queues it on the
// available list.
func (b *RedisDispatchBroker) ReleaseDriver(ctx context.Context, driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	err := releaseDriverScript.Run(ctx, b.client,
		[]string{availableKey, busyKey}, driverID.String()).Err()
	if err != nil {
		return fmt.Errorf("release driver %s: %w", driverID, err)
	}
	return nil
}

// AddAvailable enqueues the driver for assignment unless already queued.
func (b *RedisDispatchBroker) AddAvailable(ctx context.Context, driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	err := addAvailableScript.Run(ctx, b.client,
		[]string{availableKey}, driverID.String()).Err()
	if err != nil {
		return fmt.Errorf("add available driver %s: %w", driverID, err)
	}
	return nil
}

// RemoveAvailable drops the driver from the available queue.
func (b *RedisDispatchBroker) RemoveAvailable(ctx context.Context, driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	err := b.client.LRem(ctx, availableKey, 0, driverID.String()).Err()
	if err != nil {
		return fmt.Errorf("remove available driver %s: %w", driverID, err)
	}
	return nil
}

// IsBusy reports whether the driver is serving a delivery.
func (b *RedisDispatchBroker) IsBusy(ctx context.Context, driverID kernel.UUID) (bool, error) {
	if err := driverID.Validate(); err != nil {
		return false, err
	}

	busy, err := b.client.SIsMember(ctx, busyKey, driverID.String()).Result()
	if err != nil {
		return false, fmt.Errorf("check busy driver %s: %w", driverID, err)
	}
	return busy, nil
}

// BusyDrivers lists every driver currently marked busy.
func (b *RedisDispatchBroker) BusyDrivers(ctx context.Context) ([]kernel.UUID, error) {
	members, err := b.client.SMembers(ctx, busyKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list busy drivers: %w", err)
	}

	drivers := make([]kernel.UUID, 0, len(members))
	for _, member := range members {
		driverID, err := kernel.UUIDFromString(member)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driverID)
	}

	return drivers, nil
}

// AddShift marks the driver on duty.
func (b *RedisDispatchBroker) AddShift(ctx context.Context, driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	return b.client.SAdd(ctx, shiftKey, driverID.String()).Err()
}

// RemoveShift marks the driver off duty.
func (b *RedisDispatchBroker) RemoveShift(ctx context.Context, driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	return b.client.SRem(ctx, shiftKey, driverID.String()).Err()
}

// IsOnShift reports whether the driver is on duty.
func (b *RedisDispatchBroker) IsOnShift(ctx context.Context, driverID kernel.UUID) (bool, error) {
	if err := driverID.Validate(); err != nil {
		return false, err
	}

	onShift, err := b.client.SIsMember(ctx, shiftKey, driverID.String()).Result()
	if err != nil {
		return false, fmt.Errorf("check shift driver %s: %w", driverID, err)
	}
	return onShift, nil
}

// PushIdleOrder appends a ready-but-driverless order to the idle queue.
func (b *RedisDispatchBroker) PushIdleOrder(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	return b.client.RPush(ctx, idleOrdersKey, orderID.String()).Err()
}

// PopIdleOrder removes and returns the oldest idle ready order.
func (b *RedisDispatchBroker) PopIdleOrder(ctx context.Context) (kernel.UUID, bool, error) {
	raw, err := b.client.LPop(ctx, idleOrdersKey).Result()
	if errors.Is(err, redis.Nil) {
		return kernel.UUID{}, false, nil
	}
	if err != nil {
		return kernel.UUID{}, false, fmt.Errorf("pop idle order: %w", err)
	}

	orderID, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, false, err
	}

	return orderID, true, nil
}

// IncrDeliveryAttempts counts one delivery-PIN attempt inside the TTL window
// and returns the running total. The counter expires on its own, so a locked
// out driver can retry after the window passes.
func (b *RedisDispatchBroker) IncrDeliveryAttempts(
	ctx context.Context, orderID kernel.UUID, window time.Duration,
) (int, error) {
	if err := orderID.Validate(); err != nil {
		return 0, err
	}

	count, err := incrAttemptsScript.Run(ctx, b.client,
		[]string{attemptsKeyPrefix + orderID.String()}, window.Milliseconds()).Int()
	if err != nil {
		return 0, fmt.Errorf("count delivery attempt for order %s: %w", orderID, err)
	}

	return count, nil
}

// ClearDeliveryAttempts forgets the order's attempt counter.
func (b *RedisDispatchBroker) ClearDeliveryAttempts(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	return b.client.Del(ctx, attemptsKeyPrefix+orderID.String()).Err()
}

// StoreUploadTicket indexes an issued upload ticket by filename so the
// evidence file can be associated with its cancellation when it lands.
func (b *RedisDispatchBroker) StoreUploadTicket(
	ctx context.Context, filename string, cancellationID kernel.UUID, ttl time.Duration,
) error {
	if filename == "" {
		return errors.New("upload ticket filename is empty")
	}
	if err := cancellationID.Validate(); err != nil {
		return err
	}

	return b.client.Set(ctx, ticketKeyPrefix+filename, cancellationID.String(), ttl).Err()
}
