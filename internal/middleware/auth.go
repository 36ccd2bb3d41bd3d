package middleware

import (
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"shop-backend/internal/tokens"
)

// RequireAuth validates the bearer access token from the Authorization
// header and stores its claims under the "user" context key.
func RequireAuth(jwtSecret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningMethod: "HS256",
		SigningKey:    jwtSecret,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(tokens.AccessClaims)
		},
	})
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := ClaimsFrom(c)
		if err != nil {
			return err
		}
		if claims.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	}
}

func ClaimsFrom(c echo.Context) (*tokens.AccessClaims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	claims, ok := token.Claims.(*tokens.AccessClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func UserID(c echo.Context) (uint, error) {
	claims, err := ClaimsFrom(c)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}
	return uint(id), nil
}
