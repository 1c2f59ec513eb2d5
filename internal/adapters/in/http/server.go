// Package http is the inbound HTTP adapter. It binds requests, builds
// commands and queries, invokes the application handlers, and renders the
// results. Business rules never live here; the adapter only translates wire
// shapes and maps the error taxonomy to status codes.
package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	changeOrderStatusHandler   commands.ChangeOrderStatusCommandHandler
	markOrderReadyHandler      commands.MarkOrderReadyCommandHandler
	joinShiftHandler           commands.JoinShiftCommandHandler
	leaveShiftHandler          commands.LeaveShiftCommandHandler
	takeOrderHandler           commands.TakeOrderCommandHandler
	markOrderDeliveredHandler  commands.MarkOrderDeliveredCommandHandler
	cancelByDriverHandler      commands.CancelOrderByDriverCommandHandler
	cancelByInventoryHandler   commands.CancelOrderByInventoryCommandHandler
	assignOrderManuallyHandler commands.AssignOrderManuallyCommandHandler
	checkDriverStatusHandler   queries.CheckDriverStatusQueryHandler

	redisClient redis.UniversalClient
}

// NewServer creates an HTTP server wired with the application handlers. The
// Redis client feeds the driver websocket subscription, nothing else.
func NewServer(
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler,
	markOrderReadyHandler commands.MarkOrderReadyCommandHandler,
	joinShiftHandler commands.JoinShiftCommandHandler,
	leaveShiftHandler commands.LeaveShiftCommandHandler,
	takeOrderHandler commands.TakeOrderCommandHandler,
	markOrderDeliveredHandler commands.MarkOrderDeliveredCommandHandler,
	cancelByDriverHandler commands.CancelOrderByDriverCommandHandler,
	cancelByInventoryHandler commands.CancelOrderByInventoryCommandHandler,
	assignOrderManuallyHandler commands.AssignOrderManuallyCommandHandler,
	checkDriverStatusHandler queries.CheckDriverStatusQueryHandler,
	redisClient redis.UniversalClient,
) *Server {
	return &Server{
		changeOrderStatusHandler:   changeOrderStatusHandler,
		markOrderReadyHandler:      markOrderReadyHandler,
		joinShiftHandler:           joinShiftHandler,
		leaveShiftHandler:          leaveShiftHandler,
		takeOrderHandler:           takeOrderHandler,
		markOrderDeliveredHandler:  markOrderDeliveredHandler,
		cancelByDriverHandler:      cancelByDriverHandler,
		cancelByInventoryHandler:   cancelByInventoryHandler,
		assignOrderManuallyHandler: assignOrderManuallyHandler,
		checkDriverStatusHandler:   checkDriverStatusHandler,
		redisClient:                redisClient,
	}
}

// RegisterRoutes attaches every endpoint to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")

	api.PATCH("/orders/:id/status", s.ChangeOrderStatus)
	api.POST("/orders/:id/ready", s.MarkOrderReady)
	api.POST("/orders/:id/take", s.TakeOrder)
	api.POST("/orders/:id/delivered", s.MarkOrderDelivered)
	api.POST("/orders/:id/cancel-by-driver", s.CancelOrderByDriver)
	api.POST("/orders/:id/cancel-by-inventory", s.CancelOrderByInventory)
	api.POST("/orders/:id/assign", s.AssignOrderManually)

	api.POST("/drivers/:id/shift", s.JoinShift)
	api.DELETE("/drivers/:id/shift", s.LeaveShift)
	api.GET("/drivers/:id/status", s.CheckDriverStatus)

	e.GET("/ws/drivers/:id", s.DriverFeed)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

type changeOrderStatusRequest struct {
	Status        string `json:"status"`
	Reason        string `json:"reason"`
	CancelledBy   string `json:"cancelledBy"`
	AttachmentExt string `json:"attachmentExt"`
}

type changeOrderStatusResponse struct {
	Order             OrderView `json:"order"`
	EvidenceUploadURL string    `json:"evidenceUploadUrl,omitempty"`
}

// ChangeOrderStatus handles PATCH /api/v1/orders/:id/status - the staff-side
// status state machine, including delivery and cancellation side effects.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid order id",
		})
	}

	var req changeOrderStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	targetStatus, err := order.StatusFromString(req.Status)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(
		orderID, targetStatus, req.Reason, order.CancelledBy(req.CancelledBy), req.AttachmentExt)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.changeOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, changeOrderStatusResponse{
		Order:             toOrderView(result.Order),
		EvidenceUploadURL: result.EvidenceUploadURL,
	})
}

// MarkOrderReady handles POST /api/v1/orders/:id/ready - preparation
// finished, try to hand the order to a driver.
func (s *Server) MarkOrderReady(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid order id",
		})
	}

	cmd, err := commands.NewMarkOrderReadyCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.markOrderReadyHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// TakeOrder handles POST /api/v1/orders/:id/take - the assigned driver
// accepts the order and starts the delivery.
func (s *Server) TakeOrder(ctx echo.Context) error {
	orderID, driverID, ok := s.bindOrderAndDriver(ctx)
	if !ok {
		return nil
	}

	cmd, err := commands.NewTakeOrderCommand(orderID, driverID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.takeOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type markOrderDeliveredRequest struct {
	DriverID         string `json:"driverId"`
	VerificationCode string `json:"verificationCode"`
}

// MarkOrderDelivered handles POST /api/v1/orders/:id/delivered - the handoff,
// guarded by the customer's verification code.
func (s *Server) MarkOrderDelivered(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid order id",
		})
	}

	var req markOrderDeliveredRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid driver id",
		})
	}

	cmd, err := commands.NewMarkOrderDeliveredCommand(orderID, driverID, req.VerificationCode)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.markOrderDeliveredHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type cancelByDriverRequest struct {
	DriverID string `json:"driverId"`
	Reason   string `json:"reason"`
}

// CancelOrderByDriver handles POST /api/v1/orders/:id/cancel-by-driver - the
// driver aborts an active delivery.
func (s *Server) CancelOrderByDriver(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid order id",
		})
	}

	var req cancelByDriverRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid driver id",
		})
	}

	cmd, err := commands.NewCancelOrderByDriverCommand(orderID, driverID, req.Reason)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.cancelByDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type cancelByInventoryRequest struct {
	Reason        string `json:"reason"`
	AttachmentExt string `json:"attachmentExt"`
}

type cancelByInventoryResponse struct {
	EvidenceUploadURL string `json:"evidenceUploadUrl,omitempty"`
}

// CancelOrderByInventory handles POST /api/v1/orders/:id/cancel-by-inventory -
// inventory staff pre-empts a pending order, optionally reserving an upload
// slot for an evidence photo.
func (s *Server) CancelOrderByInventory(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid order id",
		})
	}

	var req cancelByInventoryRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewCancelOrderByInventoryCommand(orderID, req.Reason, req.AttachmentExt)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.cancelByInventoryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, cancelByInventoryResponse{
		EvidenceUploadURL: result.EvidenceUploadURL,
	})
}

type driverIDRequest struct {
	DriverID string `json:"driverId"`
}

// AssignOrderManually handles POST /api/v1/orders/:id/assign - a manager
// pins a specific driver to an unassigned order.
func (s *Server) AssignOrderManually(ctx echo.Context) error {
	orderID, driverID, ok := s.bindOrderAndDriver(ctx)
	if !ok {
		return nil
	}

	cmd, err := commands.NewAssignOrderManuallyCommand(orderID, driverID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.assignOrderManuallyHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type shiftResponse struct {
	ActiveOrders  []OrderView    `json:"activeOrders"`
	StatusCounts  map[string]int `json:"statusCounts"`
	AssignedOrder *OrderView     `json:"assignedOrder,omitempty"`
}

// JoinShift handles POST /api/v1/drivers/:id/shift - the driver comes on
// duty and either resumes interrupted work or picks up a queued idle order.
func (s *Server) JoinShift(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid driver id",
		})
	}

	cmd, err := commands.NewJoinShiftCommand(driverID)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.joinShiftHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	response := shiftResponse{
		ActiveOrders: toOrderViews(result.ActiveOrders),
		StatusCounts: toStatusCounts(result.StatusCounts),
	}
	if result.AssignedOrder != nil {
		view := toOrderView(result.AssignedOrder)
		response.AssignedOrder = &view
	}

	return ctx.JSON(http.StatusOK, response)
}

// LeaveShift handles DELETE /api/v1/drivers/:id/shift - the driver goes off
// duty, rejected while a delivery is in progress.
func (s *Server) LeaveShift(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid driver id",
		})
	}

	cmd, err := commands.NewLeaveShiftCommand(driverID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.leaveShiftHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type driverStatusResponse struct {
	OnShift       bool           `json:"onShift"`
	Busy          bool           `json:"busy"`
	ActiveOrders  []OrderView    `json:"activeOrders"`
	StatusCounts  map[string]int `json:"statusCounts"`
	AssignedOrder *OrderView     `json:"assignedOrder,omitempty"`
}

// CheckDriverStatus handles GET /api/v1/drivers/:id/status - driver state,
// workload, and the opportunistic idle-order pull.
func (s *Server) CheckDriverStatus(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid driver id",
		})
	}

	query, err := queries.NewCheckDriverStatusQuery(driverID)
	if err != nil {
		return respondError(ctx, err)
	}

	status, err := s.checkDriverStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := driverStatusResponse{
		OnShift:      status.OnShift,
		Busy:         status.Busy,
		ActiveOrders: toOrderViews(status.ActiveOrders),
		StatusCounts: toStatusCounts(status.StatusCounts),
	}
	if status.AssignedOrder != nil {
		view := toOrderView(status.AssignedOrder)
		response.AssignedOrder = &view
	}

	return ctx.JSON(http.StatusOK, response)
}

// bindOrderAndDriver extracts the order id from the path and the driver id
// from the request body, writing the error response itself on failure.
func (s *Server) bindOrderAndDriver(ctx echo.Context) (kernel.UUID, kernel.UUID, bool) {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		_ = ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid order id",
		})
		return kernel.UUID{}, kernel.UUID{}, false
	}

	var req driverIDRequest
	if err = ctx.Bind(&req); err != nil {
		_ = ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
		return kernel.UUID{}, kernel.UUID{}, false
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		_ = ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid driver id",
		})
		return kernel.UUID{}, kernel.UUID{}, false
	}

	return orderID, driverID, true
}
