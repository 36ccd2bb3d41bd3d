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
)

type AuthHandler struct {
	Svc      *service.AuthService
	Producer *events.Producer
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicUserEvents, fmt.Sprint(event["user_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "error", err)
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Signup(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})
	return c.JSON(http.StatusCreated, transport.SignupResponse{UserID: user.ID})
}

func (h *AuthHandler) Signin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signin")

	var req transport.SigninRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signin_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Signin(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":    "user_signed_in",
		"user_id": pair.UserID,
	})
	return c.JSON(http.StatusOK, transport.TokenPairResponse{
		UserID:  pair.UserID,
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Refresh(ctx, req.Refresh)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, transport.TokenPairResponse{
		UserID:  pair.UserID,
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	var req transport.LogoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("logout_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Logout(ctx, req.Refresh); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
