package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"shop-backend/internal/events"
	"shop-backend/internal/logging"
	"shop-backend/internal/middleware"
	"shop-backend/internal/service"
	"shop-backend/internal/transport"
	"shop-backend/internal/util"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Producer *events.Producer
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicOrderEvents, fmt.Sprint(event["user_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "error", err)
	}
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_place")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.PlaceOrder(ctx, userID, req.ShippingAddress)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":     "order_placed",
		"user_id":  userID,
		"order_id": order.ID,
	})
	return c.JSON(http.StatusCreated, transport.PlaceOrderResponse{OrderID: order.ID})
}

func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)

	result, err := h.Svc.ListAll(c.Request().Context(), page)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) ListCustomerOrders(c echo.Context) error {
	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	views, err := h.Svc.ListByCustomer(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}
