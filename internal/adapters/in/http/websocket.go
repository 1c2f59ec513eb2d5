package http

import (
	"net/http"

	"fulfillment/internal/adapters/out/push"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"
)

// DriverFeed handles GET /ws/drivers/:id - the driver app's push socket.
// The connection subscribes to the driver's Redis channel and forwards every
// assignment payload verbatim. Whichever replica holds the socket does the
// forwarding; the channel itself is the shared source of messages.
func (s *Server) DriverFeed(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid driver id",
		})
	}

	websocket.Handler(func(ws *websocket.Conn) {
		defer ws.Close()

		reqCtx := ctx.Request().Context()

		pubsub := s.redisClient.Subscribe(reqCtx, push.ChannelFor(driverID))
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-reqCtx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				if err := websocket.Message.Send(ws, msg.Payload); err != nil {
					return
				}
			}
		}
	}).ServeHTTP(ctx.Response(), ctx.Request())

	return nil
}
