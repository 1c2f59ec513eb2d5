package redisbroker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/redisbroker"
	"fulfillment/internal/core/domain/model/kernel"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// DispatchBrokerIntegrationTestSuite exercises the Redis broker against a
// real Redis container, focusing on the invariant that a driver is never both
// available and busy.
type DispatchBrokerIntegrationTestSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *redisclient.Client
	broker    *redisbroker.RedisDispatchBroker
}

func (suite *DispatchBrokerIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx)
	suite.Require().NoError(err)

	opts, err := redisclient.ParseURL(connStr)
	suite.Require().NoError(err)

	suite.client = redisclient.NewClient(opts)
	suite.Require().NoError(suite.client.Ping(ctx).Err())

	suite.broker = redisbroker.NewRedisDispatchBroker(suite.client)
}

func (suite *DispatchBrokerIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushAll(context.Background()).Err())
}

func (suite *DispatchBrokerIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.Require().NoError(suite.client.Close())
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DispatchBrokerIntegrationTestSuite) TestPopAvailableNotBusy_HandsOutFIFO() {
	ctx := context.Background()

	first := kernel.NewUUID()
	second := kernel.NewUUID()
	suite.Require().NoError(suite.broker.AddAvailable(ctx, first))
	suite.Require().NoError(suite.broker.AddAvailable(ctx, second))

	popped, found, err := suite.broker.PopAvailableNotBusy(ctx)
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.True(first.IsEqual(popped))

	busy, err := suite.broker.IsBusy(ctx, first)
	suite.Require().NoError(err)
	suite.True(busy)

	suite.assertAvailableBusyDisjoint(ctx)
}

func (suite *DispatchBrokerIntegrationTestSuite) TestPopAvailableNotBusy_EmptyQueue() {
	_, found, err := suite.broker.PopAvailableNotBusy(context.Background())
	suite.Require().NoError(err)
	suite.False(found)
}

func (suite *DispatchBrokerIntegrationTestSuite) TestPopAvailableNotBusy_DiscardsStaleBusyHead() {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	// Forge the inconsistent state directly: queued and busy at once.
	suite.Require().NoError(suite.client.RPush(ctx, "dispatch:available", driverID.String()).Err())
	suite.Require().NoError(suite.client.SAdd(ctx, "dispatch:busy", driverID.String()).Err())

	_, found, err := suite.broker.PopAvailableNotBusy(ctx)
	suite.Require().NoError(err)
	suite.False(found)

	suite.assertAvailableBusyDisjoint(ctx)
}

func (suite *DispatchBrokerIntegrationTestSuite) TestPopAvailableNotBusy_OneWinnerUnderContention() {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	suite.Require().NoError(suite.broker.AddAvailable(ctx, driverID))

	// All goroutines race for the single available driver; the atomic
	// pop-and-mark-busy script must hand it to exactly one of them.
	const attempts = 32

	type popResult struct {
		driver kernel.UUID
		found  bool
		err    error
	}

	results := make(chan popResult, attempts)
	var ready, done sync.WaitGroup
	ready.Add(1)

	for i := 0; i < attempts; i++ {
		done.Add(1)
		go func() {
			defer done.Done()
			ready.Wait()
			popped, found, err := suite.broker.PopAvailableNotBusy(ctx)
			results <- popResult{driver: popped, found: found, err: err}
		}()
	}

	ready.Done()
	done.Wait()
	close(results)

	winners := 0
	for result := range results {
		suite.Require().NoError(result.err)
		if result.found {
			winners++
			suite.True(driverID.IsEqual(result.driver))
		}
	}
	suite.Equal(1, winners)

	busy, err := suite.broker.IsBusy(ctx, driverID)
	suite.Require().NoError(err)
	suite.True(busy)

	suite.assertAvailableBusyDisjoint(ctx)
}

func (suite *DispatchBrokerIntegrationTestSuite) TestAddAvailable_IsIdempotent() {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	suite.Require().NoError(suite.broker.AddAvailable(ctx, driverID))
	suite.Require().NoError(suite.broker.AddAvailable(ctx, driverID))

	length, err := suite.client.LLen(ctx, "dispatch:available").Result()
	suite.Require().NoError(err)
	suite.Equal(int64(1), length)
}

func (suite *DispatchBrokerIntegrationTestSuite) TestClaimAndRelease_RoundTrip() {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	suite.Require().NoError(suite.broker.AddAvailable(ctx, driverID))

	suite.Require().NoError(suite.broker.ClaimDriver(ctx, driverID))
	busy, err := suite.broker.IsBusy(ctx, driverID)
	suite.Require().NoError(err)
	suite.True(busy)
	suite.assertAvailableBusyDisjoint(ctx)

	// Claiming again must not duplicate state.
	suite.Require().NoError(suite.broker.ClaimDriver(ctx, driverID))

	suite.Require().NoError(suite.broker.ReleaseDriver(ctx, driverID))
	busy, err = suite.broker.IsBusy(ctx, driverID)
	suite.Require().NoError(err)
	suite.False(busy)

	length, err := suite.client.LLen(ctx, "dispatch:available").Result()
	suite.Require().NoError(err)
	suite.Equal(int64(1), length)
	suite.assertAvailableBusyDisjoint(ctx)

	// Releasing a driver already queued must not enqueue it twice.
	suite.Require().NoError(suite.broker.ReleaseDriver(ctx, driverID))
	length, err = suite.client.LLen(ctx, "dispatch:available").Result()
	suite.Require().NoError(err)
	suite.Equal(int64(1), length)
}

func (suite *DispatchBrokerIntegrationTestSuite) TestShiftMembership() {
	ctx := context.Background()

	driverID := kernel.NewUUID()

	onShift, err := suite.broker.IsOnShift(ctx, driverID)
	suite.Require().NoError(err)
	suite.False(onShift)

	suite.Require().NoError(suite.broker.AddShift(ctx, driverID))
	onShift, err = suite.broker.IsOnShift(ctx, driverID)
	suite.Require().NoError(err)
	suite.True(onShift)

	suite.Require().NoError(suite.broker.RemoveShift(ctx, driverID))
	onShift, err = suite.broker.IsOnShift(ctx, driverID)
	suite.Require().NoError(err)
	suite.False(onShift)
}

func (suite *DispatchBrokerIntegrationTestSuite) TestIdleOrderQueue_FIFO() {
	ctx := context.Background()

	first := kernel.NewUUID()
	second := kernel.NewUUID()
	suite.Require().NoError(suite.broker.PushIdleOrder(ctx, first))
	suite.Require().NoError(suite.broker.PushIdleOrder(ctx, second))

	popped, found, err := suite.broker.PopIdleOrder(ctx)
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.True(first.IsEqual(popped))

	popped, found, err = suite.broker.PopIdleOrder(ctx)
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.True(second.IsEqual(popped))

	_, found, err = suite.broker.PopIdleOrder(ctx)
	suite.Require().NoError(err)
	suite.False(found)
}

func (suite *DispatchBrokerIntegrationTestSuite) TestDeliveryAttempts_CountAndExpire() {
	ctx := context.Background()

	orderID := kernel.NewUUID()

	for want := 1; want <= 3; want++ {
		count, err := suite.broker.IncrDeliveryAttempts(ctx, orderID, time.Minute)
		suite.Require().NoError(err)
		suite.Equal(want, count)
	}

	suite.Require().NoError(suite.broker.ClearDeliveryAttempts(ctx, orderID))

	count, err := suite.broker.IncrDeliveryAttempts(ctx, orderID, time.Minute)
	suite.Require().NoError(err)
	suite.Equal(1, count)

	ttl, err := suite.client.TTL(ctx, "dispatch:delivery_attempts:"+orderID.String()).Result()
	suite.Require().NoError(err)
	suite.Greater(ttl, time.Duration(0))
}

func (suite *DispatchBrokerIntegrationTestSuite) TestStoreUploadTicket() {
	ctx := context.Background()

	cancellationID := kernel.NewUUID()
	suite.Require().NoError(
		suite.broker.StoreUploadTicket(ctx, "evidence-abc.jpg", cancellationID, 10*time.Minute))

	stored, err := suite.client.Get(ctx, "dispatch:upload_ticket:evidence-abc.jpg").Result()
	suite.Require().NoError(err)
	suite.Equal(cancellationID.String(), stored)

	ttl, err := suite.client.TTL(ctx, "dispatch:upload_ticket:evidence-abc.jpg").Result()
	suite.Require().NoError(err)
	suite.Greater(ttl, time.Duration(0))
}

// assertAvailableBusyDisjoint checks the core broker invariant.
func (suite *DispatchBrokerIntegrationTestSuite) assertAvailableBusyDisjoint(ctx context.Context) {
	available, err := suite.client.LRange(ctx, "dispatch:available", 0, -1).Result()
	suite.Require().NoError(err)

	for _, id := range available {
		busy, err := suite.client.SIsMember(ctx, "dispatch:busy", id).Result()
		suite.Require().NoError(err)
		suite.False(busy, "driver %s is both available and busy", id)
	}
}

func TestDispatchBrokerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DispatchBrokerIntegrationTestSuite))
}
