package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shop-backend/internal/config"
	"shop-backend/internal/models"
	"shop-backend/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	return &repo.GormRepo{DB: db}
}

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:          newTestRepo(t),
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func createProduct(t *testing.T, r *repo.GormRepo, name string, price float64, stock uint) *models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, r.DB.Create(&p).Error)
	return &p
}

func createUser(t *testing.T, r *repo.GormRepo, email string) *models.User {
	t.Helper()
	u := models.User{Email: email, PasswordHash: "x", Role: "user"}
	require.NoError(t, r.DB.Create(&u).Error)
	return &u
}

func cartItemCount(t *testing.T, r *repo.GormRepo, userID uint) int64 {
	t.Helper()
	cart, err := r.CartByUser(context.Background(), userID)
	if err != nil {
		return 0
	}
	var n int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&n).Error)
	return n
}
