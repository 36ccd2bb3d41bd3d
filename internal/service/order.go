package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"shop-backend/internal/logging"
	"shop-backend/internal/models"
	"shop-backend/internal/repo"
	"shop-backend/internal/transport"
	"shop-backend/internal/util"
)

type OrderService struct {
	Repo *repo.GormRepo
}

// PlaceOrder creates the order header and clears the cart atomically. No
// stock is checked or decremented, and the purchased items are not
// snapshotted onto the order.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, shippingAddress string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "user_id", userID)

	if strings.TrimSpace(shippingAddress) == "" {
		return nil, fmt.Errorf("%w: shipping_address is required", ErrValidation)
	}

	cart, err := s.Repo.CartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart not found", ErrNotFound)
		}
		return nil, err
	}

	items, err := s.Repo.CartItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	order := models.Order{
		UserID:          userID,
		ShippingAddress: shippingAddress,
	}
	if err := s.Repo.PlaceOrder(ctx, &order, cart.ID); err != nil {
		l.Error("place_order_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("order_placed", "order_id", order.ID)
	return &order, nil
}

// ListAll paginates with a fixed page size of 10 and treats an empty page as
// not found, matching the admin listing contract.
func (s *OrderService) ListAll(ctx context.Context, page int) (*transport.OrderPage, error) {
	offset, limit := util.Calculate(page, util.OrderPageSize)

	total, orders, err := s.Repo.Orders(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: no orders found", ErrNotFound)
	}

	if page < 1 {
		page = 1
	}
	views := make([]transport.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, orderView(o))
	}
	return &transport.OrderPage{
		Data: views,
		Meta: transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}, nil
}

func (s *OrderService) ListByCustomer(ctx context.Context, customerID uint) ([]transport.OrderView, error) {
	orders, err := s.Repo.OrdersByUser(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: no orders found for this customer", ErrNotFound)
	}

	views := make([]transport.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, orderView(o))
	}
	return views, nil
}

func orderView(o models.Order) transport.OrderView {
	return transport.OrderView{
		OrderID:         o.ID,
		UserID:          o.UserID,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
	}
}
