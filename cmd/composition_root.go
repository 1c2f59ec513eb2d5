package cmd

import (
	"log/slog"

	"fulfillment/internal/adapters/out/cloudinarystore"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/settingsrepo"
	"fulfillment/internal/adapters/out/push"
	"fulfillment/internal/adapters/out/redisbroker"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into application handlers. Handlers are
// cheap value types created per call; the adapters behind them are shared.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	broker      ports.DispatchBroker
	engine      services.DispatchEngine
	settings    ports.SettingsProvider
	attachments ports.AttachmentStore
}

// NewCompositionRoot assembles the shared adapters from open connections.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient redis.UniversalClient,
	attachments ports.AttachmentStore,
	logger *slog.Logger,
) CompositionRoot {
	broker := redisbroker.NewRedisDispatchBroker(redisClient)
	notifier := push.NewRedisDriverNotifier(redisClient, logger)

	defaultRate, err := decimal.NewFromString(config.PointsPerCurrencyUnit)
	if err != nil || !defaultRate.IsPositive() {
		// A broken earn-rate setting must not award points for free.
		defaultRate = decimal.NewFromInt(100)
	}

	return CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		broker:      broker,
		engine:      services.NewDispatchEngine(broker, notifier),
		settings:    settingsrepo.NewGormSettingsProvider(gormDB, defaultRate),
		attachments: attachments,
	}
}

// NewCloudinaryAttachmentStore builds the attachment store from config, kept
// here so main stays free of adapter constructors.
func NewCloudinaryAttachmentStore(config Config) (ports.AttachmentStore, error) {
	return cloudinarystore.NewCloudinaryAttachmentStore(
		config.CloudinaryCloudName, config.CloudinaryAPIKey, config.CloudinaryAPISecret)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(
		c.fulfillmentUoWFactory(), c.engine, c.settings, c.attachments, c.broker)
}

func (c *CompositionRoot) CreateMarkOrderReadyCommandHandler() commands.MarkOrderReadyCommandHandler {
	return commands.NewMarkOrderReadyCommandHandler(c.orderUoWFactory(), c.engine)
}

func (c *CompositionRoot) CreateJoinShiftCommandHandler() commands.JoinShiftCommandHandler {
	return commands.NewJoinShiftCommandHandler(c.orderUoWFactory(), c.engine)
}

func (c *CompositionRoot) CreateLeaveShiftCommandHandler() commands.LeaveShiftCommandHandler {
	return commands.NewLeaveShiftCommandHandler(c.engine)
}

func (c *CompositionRoot) CreateTakeOrderCommandHandler() commands.TakeOrderCommandHandler {
	return commands.NewTakeOrderCommandHandler(c.orderUoWFactory(), c.engine)
}

func (c *CompositionRoot) CreateMarkOrderDeliveredCommandHandler() commands.MarkOrderDeliveredCommandHandler {
	return commands.NewMarkOrderDeliveredCommandHandler(
		c.fulfillmentUoWFactory(), c.engine, c.settings, c.broker)
}

func (c *CompositionRoot) CreateCancelOrderByDriverCommandHandler() commands.CancelOrderByDriverCommandHandler {
	return commands.NewCancelOrderByDriverCommandHandler(c.fulfillmentUoWFactory(), c.engine)
}

func (c *CompositionRoot) CreateCancelOrderByInventoryCommandHandler() commands.CancelOrderByInventoryCommandHandler {
	return commands.NewCancelOrderByInventoryCommandHandler(
		c.fulfillmentUoWFactory(), c.attachments, c.broker)
}

func (c *CompositionRoot) CreateAssignOrderManuallyCommandHandler() commands.AssignOrderManuallyCommandHandler {
	f := FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignOrderManuallyCommandHandler(f, c.engine)
}

func (c *CompositionRoot) CreateDispatchIdleOrderCommandHandler() commands.DispatchIdleOrderCommandHandler {
	return commands.NewDispatchIdleOrderCommandHandler(c.orderUoWFactory(), c.engine)
}

func (c *CompositionRoot) CreateReconcileDriversCommandHandler() commands.ReconcileDriversCommandHandler {
	return commands.NewReconcileDriversCommandHandler(c.orderUoWFactory(), c.broker)
}

func (c *CompositionRoot) CreateCheckDriverStatusQueryHandler() queries.CheckDriverStatusQueryHandler {
	return queries.NewCheckDriverStatusQueryHandler(&c.uowFactory, c.engine)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fulfillmentUoWFactory() commands.FulfillmentUoWFactory {
	return FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}

type FuncAssignmentUoWFactory func() commands.AssignmentUoW

func (f FuncAssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f()
}
