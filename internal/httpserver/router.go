package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shop-backend/internal/middleware"
)

type Deps struct {
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := middleware.RequireAuth(d.JWTSecret)

	e.POST("/signup", d.AuthHandler.Signup)
	e.POST("/signin", d.AuthHandler.Signin)
	e.POST("/refresh", d.AuthHandler.Refresh)
	e.POST("/logout", d.AuthHandler.Logout, auth)

	e.GET("/products", d.ProductHandler.ListProducts)
	e.GET("/products/search", d.ProductHandler.SearchProducts)
	e.GET("/products/:id", d.ProductHandler.GetProduct)
	e.POST("/products/add", d.ProductHandler.CreateProduct, auth)
	e.PUT("/products/update/:id", d.ProductHandler.UpdateProduct, auth, middleware.RequireAdmin)
	e.DELETE("/products/delete/:id", d.ProductHandler.DeleteProduct, auth, middleware.RequireAdmin)

	cart := e.Group("/cart", auth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/add", d.CartHandler.AddToCart)
	cart.PUT("/update", d.CartHandler.UpdateCart)
	cart.DELETE("/delete", d.CartHandler.RemoveFromCart)

	orders := e.Group("/orders", auth)
	orders.POST("/place", d.OrderHandler.PlaceOrder)
	orders.GET("/all", d.OrderHandler.ListAllOrders, middleware.RequireAdmin)
	orders.GET("/customer/:id", d.OrderHandler.ListCustomerOrders)
}
