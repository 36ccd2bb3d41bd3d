package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"shop-backend/internal/events"
	"shop-backend/internal/logging"
	"shop-backend/internal/service"
	"shop-backend/internal/transport"
	"shop-backend/internal/util"
)

type ProductHandler struct {
	Svc      *service.CatalogService
	Producer *events.Producer
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicProductEvents, fmt.Sprint(event["product_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "error", err)
	}
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":       "product_created",
		"product_id": p.ID,
		"name":       p.Name,
	})
	return c.JSON(http.StatusCreated, transport.CreateProductResponse{ProductID: p.ID})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_update")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Svc.PatchProduct(ctx, uint(id), req)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":       "product_updated",
		"product_id": p.ID,
		"name":       p.Name,
	})
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.DeleteProduct(ctx, uint(id)); err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := h.Svc.GetProduct(ctx, uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	items, err := h.Svc.ListProducts(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_search")

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), 10)
	from, limit := util.Calculate(page, size)

	total, items, err := h.Svc.SearchProducts(ctx, query, from, limit)
	if err != nil {
		l.Warn("search_failed", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search unavailable")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total": total,
		"hits":  items,
	})
}
