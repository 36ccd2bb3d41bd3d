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
)

type CartHandler struct {
	Svc      *service.CartService
	Producer *events.Producer
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicCartEvents, fmt.Sprint(event["user_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "error", err)
	}
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_add")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.AddToCart(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":       "cart_item_added",
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) UpdateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_update")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, removed, err := h.Svc.UpdateItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return httpError(err)
	}

	if removed {
		h.publish(c, map[string]any{
			"type":       "cart_item_removed",
			"user_id":    userID,
			"product_id": req.ProductID,
		})
		return c.JSON(http.StatusOK, echo.Map{"message": "product removed from cart"})
	}

	h.publish(c, map[string]any{
		"type":       "cart_item_updated",
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_remove")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req transport.RemoveFromCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("remove_from_cart_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.RemoveItem(ctx, userID, req.ProductID); err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":       "cart_item_removed",
		"user_id":    userID,
		"product_id": req.ProductID,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "product removed from cart"})
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	view, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}
