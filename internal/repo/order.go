package repo

import (
	"context"

	"gorm.io/gorm"

	"shop-backend/internal/models"
)

// PlaceOrder inserts the order and clears the cart in one transaction, so a
// failure never leaves an order without a cleared cart or vice versa.
func (r *GormRepo) PlaceOrder(ctx context.Context, order *models.Order, cartID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
	})
}

func (r *GormRepo) Orders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) OrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
