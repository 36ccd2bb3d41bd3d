package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shop-backend/internal/logging"
	"shop-backend/internal/models"
	"shop-backend/internal/repo"
	"shop-backend/internal/transport"
)

type CartService struct {
	Repo *repo.GormRepo
}

// AddToCart never reserves stock; quantities accumulate across calls for the
// same (user, product).
func (s *CartService) AddToCart(ctx context.Context, userID, productID, quantity uint) (*models.CartItem, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", userID)

	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	if _, err := s.Repo.Product(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product not found", ErrNotFound)
		}
		return nil, err
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		l.Error("add_to_cart_failed", "status", 500, "error", err)
		return nil, err
	}

	item := models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.Repo.AddCartItem(ctx, &item); err != nil {
		l.Error("add_to_cart_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("cart_item_added", "product_id", productID, "quantity", item.Quantity)
	return &item, nil
}

// UpdateItem overwrites the quantity; zero means removal and is not an error.
// The removed return tells the caller which of the two happened.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, bool, error) {
	l := logging.FromContext(ctx).With("svc", "cart.update", "user_id", userID)

	if quantity < 0 {
		return nil, false, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	item, err := s.userCartItem(ctx, userID, productID)
	if err != nil {
		return nil, false, err
	}

	if quantity == 0 {
		if err := s.Repo.DeleteCartItem(ctx, item); err != nil {
			l.Error("update_cart_failed", "status", 500, "error", err)
			return nil, false, err
		}
		l.Info("cart_item_removed", "product_id", productID)
		return nil, true, nil
	}

	if err := s.Repo.SetCartItemQuantity(ctx, item, uint(quantity)); err != nil {
		l.Error("update_cart_failed", "status", 500, "error", err)
		return nil, false, err
	}
	item.Quantity = uint(quantity)

	l.Info("cart_item_updated", "product_id", productID, "quantity", item.Quantity)
	return item, false, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) error {
	l := logging.FromContext(ctx).With("svc", "cart.remove", "user_id", userID)

	item, err := s.userCartItem(ctx, userID, productID)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteCartItem(ctx, item); err != nil {
		l.Error("remove_cart_item_failed", "status", 500, "error", err)
		return err
	}

	l.Info("cart_item_removed", "product_id", productID)
	return nil
}

// GetCart computes the total from current product prices at read time; cart
// totals are not price-locked at add time.
func (s *CartService) GetCart(ctx context.Context, userID uint) (*transport.CartView, error) {
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

	view := transport.CartView{Items: make([]transport.CartItemView, 0, len(items))}
	for _, it := range items {
		price := 0.0
		if p, err := s.Repo.Product(ctx, it.ProductID); err == nil {
			price = p.Price
		}
		view.Items = append(view.Items, transport.CartItemView{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     price,
		})
		view.TotalAmount += price * float64(it.Quantity)
	}
	return &view, nil
}

func (s *CartService) userCartItem(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	cart, err := s.Repo.CartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart not found", ErrNotFound)
		}
		return nil, err
	}

	item, err := s.Repo.CartItem(ctx, cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product not found in cart", ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}
