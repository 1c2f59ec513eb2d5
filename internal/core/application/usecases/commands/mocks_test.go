package commands_test

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/coupon"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/staff"
	"fulfillment/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetActiveByDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountByStatusForDriver(
	ctx context.Context, driverID kernel.UUID,
) (map[order.Status]int, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[order.Status]int), args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) AdjustStock(ctx context.Context, deltas []ports.StockDelta) error {
	return m.Called(ctx, deltas).Error(0)
}

type MockCouponRepository struct{ mock.Mock }

func (m *MockCouponRepository) Get(ctx context.Context, id kernel.UUID) (*coupon.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupon.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Update(ctx context.Context, c *coupon.Coupon) error {
	return m.Called(ctx, c).Error(0)
}

type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) ApplyLedgerDelta(
	ctx context.Context, phone string, delta customer.LedgerDelta,
) error {
	return m.Called(ctx, phone, delta).Error(0)
}

type MockCancellationRepository struct{ mock.Mock }

func (m *MockCancellationRepository) Add(ctx context.Context, record *order.Cancellation) error {
	return m.Called(ctx, record).Error(0)
}

type MockStaffRepository struct{ mock.Mock }

func (m *MockStaffRepository) Get(ctx context.Context, id kernel.UUID) (*staff.Staff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.Staff), args.Error(1)
}

// fakeFulfillmentUoW wires the repository mocks behind a transaction shim so
// handler tests do not need to script every factory accessor. Begin, Commit,
// and Rollback calls are counted instead of mocked.
type fakeFulfillmentUoW struct {
	orders        *MockOrderRepository
	products      *MockProductRepository
	coupons       *MockCouponRepository
	customers     *MockCustomerRepository
	cancellations *MockCancellationRepository
	staff         *MockStaffRepository

	begins    int
	commits   int
	rollbacks int

	beginErr  error
	commitErr error
}

func newFakeUoW() *fakeFulfillmentUoW {
	return &fakeFulfillmentUoW{
		orders:        new(MockOrderRepository),
		products:      new(MockProductRepository),
		coupons:       new(MockCouponRepository),
		customers:     new(MockCustomerRepository),
		cancellations: new(MockCancellationRepository),
		staff:         new(MockStaffRepository),
	}
}

func (f *fakeFulfillmentUoW) Begin(context.Context) error {
	f.begins++
	return f.beginErr
}

func (f *fakeFulfillmentUoW) Commit(context.Context) error {
	f.commits++
	return f.commitErr
}

func (f *fakeFulfillmentUoW) Rollback(context.Context) error {
	f.rollbacks++
	return nil
}

func (f *fakeFulfillmentUoW) OrderRepository() ports.OrderRepository               { return f.orders }
func (f *fakeFulfillmentUoW) ProductRepository() ports.ProductRepository           { return f.products }
func (f *fakeFulfillmentUoW) CouponRepository() ports.CouponRepository             { return f.coupons }
func (f *fakeFulfillmentUoW) CustomerRepository() ports.CustomerRepository         { return f.customers }
func (f *fakeFulfillmentUoW) CancellationRepository() ports.CancellationRepository { return f.cancellations }
func (f *fakeFulfillmentUoW) StaffRepository() ports.StaffRepository               { return f.staff }

type fakeFulfillmentUoWFactory struct{ uow *fakeFulfillmentUoW }

func (f fakeFulfillmentUoWFactory) Create() commands.FulfillmentUoW { return f.uow }

type fakeOrderUoWFactory struct{ uow *fakeFulfillmentUoW }

func (f fakeOrderUoWFactory) Create() commands.OrderUoW { return f.uow }

type fakeAssignmentUoWFactory struct{ uow *fakeFulfillmentUoW }

func (f fakeAssignmentUoWFactory) Create() commands.AssignmentUoW { return f.uow }

type MockDispatchBroker struct{ mock.Mock }

func (m *MockDispatchBroker) PopAvailableNotBusy(ctx context.Context) (kernel.UUID, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(kernel.UUID), args.Bool(1), args.Error(2)
}

func (m *MockDispatchBroker) ClaimDriver(ctx context.Context, driverID kernel.UUID) error {
	return m.Called(ctx, driverID).Error(0)
}

func (m *MockDispatchBroker) ReleaseDriver(ctx context.Context, driverID kernel.UUID) error {
	return m.Called(ctx, driverID).Error(0)
}

func (m *MockDispatchBroker) AddAvailable(ctx context.Context, driverID kernel.UUID) error {
	return m.Called(ctx, driverID).Error(0)
}

func (m *MockDispatchBroker) RemoveAvailable(ctx context.Context, driverID kernel.UUID) error {
	return m.Called(ctx, driverID).Error(0)
}

func (m *MockDispatchBroker) IsBusy(ctx context.Context, driverID kernel.UUID) (bool, error) {
	args := m.Called(ctx, driverID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDispatchBroker) BusyDrivers(ctx context.Context) ([]kernel.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockDispatchBroker) AddShift(ctx context.Context, driverID kernel.UUID) error {
	return m.Called(ctx, driverID).Error(0)
}

func (m *MockDispatchBroker) RemoveShift(ctx context.Context, driverID kernel.UUID) error {
	return m.Called(ctx, driverID).Error(0)
}

func (m *MockDispatchBroker) IsOnShift(ctx context.Context, driverID kernel.UUID) (bool, error) {
	args := m.Called(ctx, driverID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDispatchBroker) PushIdleOrder(ctx context.Context, orderID kernel.UUID) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *MockDispatchBroker) PopIdleOrder(ctx context.Context) (kernel.UUID, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(kernel.UUID), args.Bool(1), args.Error(2)
}

func (m *MockDispatchBroker) IncrDeliveryAttempts(
	ctx context.Context, orderID kernel.UUID, window time.Duration,
) (int, error) {
	args := m.Called(ctx, orderID, window)
	return args.Int(0), args.Error(1)
}

func (m *MockDispatchBroker) ClearDeliveryAttempts(ctx context.Context, orderID kernel.UUID) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *MockDispatchBroker) StoreUploadTicket(
	ctx context.Context, filename string, cancellationID kernel.UUID, ttl time.Duration,
) error {
	return m.Called(ctx, filename, cancellationID, ttl).Error(0)
}

type MockDriverNotifier struct{ mock.Mock }

func (m *MockDriverNotifier) Send(ctx context.Context, driverID kernel.UUID, payload ports.AssignmentPayload) {
	m.Called(ctx, driverID, payload)
}

type MockSettingsProvider struct{ mock.Mock }

func (m *MockSettingsProvider) PointsPerCurrencyUnit(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockAttachmentStore struct{ mock.Mock }

func (m *MockAttachmentStore) IssueUploadTicket(
	ctx context.Context, ttl time.Duration, fileExtension string,
) (ports.UploadTicket, error) {
	args := m.Called(ctx, ttl, fileExtension)
	return args.Get(0).(ports.UploadTicket), args.Error(1)
}

func (m *MockAttachmentStore) SignedURL(ctx context.Context, filename string) (string, error) {
	args := m.Called(ctx, filename)
	return args.String(0), args.Error(1)
}
