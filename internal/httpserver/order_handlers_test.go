package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/internal/models"
	"shop-backend/internal/transport"
)

func TestPlaceOrderEndpoint(t *testing.T) {
	env := newTestEnv(t)
	pair := env.loginUser("user@example.com")
	env.createProduct("widget", 10, 5)

	rec := env.do(http.MethodPost, "/cart/add", map[string]any{"product_id": 1, "quantity": 2}, pair.Access)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/orders/place", map[string]string{"shipping_address": "1 Main St"}, pair.Access)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp transport.PlaceOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.OrderID)

	// cart is cleared by placement
	rec = env.do(http.MethodGet, "/cart", nil, pair.Access)
	require.Equal(t, http.StatusOK, rec.Code)
	var view transport.CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.Items)

	// placing again on the now-empty cart fails
	rec = env.do(http.MethodPost, "/orders/place", map[string]string{"shipping_address": "1 Main St"}, pair.Access)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceOrderEndpoint_NoCart(t *testing.T) {
	env := newTestEnv(t)
	pair := env.loginUser("user@example.com")

	rec := env.do(http.MethodPost, "/orders/place", map[string]string{"shipping_address": "1 Main St"}, pair.Access)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlaceOrderEndpoint_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/orders/place", map[string]string{"shipping_address": "1 Main St"}, "")
	requireAuthFailure(t, rec)
}

func TestListAllOrdersEndpoint(t *testing.T) {
	env := newTestEnv(t)
	admin := env.loginAdmin("admin@example.com")

	for i := 0; i < 13; i++ {
		require.NoError(t, env.Repo.DB.Create(&models.Order{
			UserID:          1,
			ShippingAddress: fmt.Sprintf("%d Main St", i),
		}).Error)
	}

	rec := env.do(http.MethodGet, "/orders/all", nil, admin.Access)
	require.Equal(t, http.StatusOK, rec.Code)

	var page transport.OrderPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Data, 10)
	assert.EqualValues(t, 13, page.Meta.Total)

	rec = env.do(http.MethodGet, "/orders/all?page=2", nil, admin.Access)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Data, 3)

	rec = env.do(http.MethodGet, "/orders/all?page=3", nil, admin.Access)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAllOrdersEndpoint_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	pair := env.loginUser("user@example.com")

	rec := env.do(http.MethodGet, "/orders/all", nil, pair.Access)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListCustomerOrdersEndpoint(t *testing.T) {
	env := newTestEnv(t)
	pair := env.loginUser("user@example.com")

	require.NoError(t, env.Repo.DB.Create(&models.Order{UserID: pair.UserID, ShippingAddress: "1 Main St"}).Error)

	rec := env.do(http.MethodGet, fmt.Sprintf("/orders/customer/%d", pair.UserID), nil, pair.Access)
	require.Equal(t, http.StatusOK, rec.Code)

	var views []transport.OrderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, pair.UserID, views[0].UserID)
	assert.Equal(t, "1 Main St", views[0].ShippingAddress)
}

func TestListCustomerOrdersEndpoint_NoOrders(t *testing.T) {
	env := newTestEnv(t)
	pair := env.loginUser("user@example.com")

	rec := env.do(http.MethodGet, fmt.Sprintf("/orders/customer/%d", pair.UserID), nil, pair.Access)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
