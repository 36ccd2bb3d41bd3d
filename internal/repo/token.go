package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"shop-backend/internal/models"
	"shop-backend/internal/tokens"
)

func (r *GormRepo) SaveRefresh(ctx context.Context, rawToken string, userID uint, jti string, expiresAt time.Time) error {
	m := models.RefreshToken{
		Token:     tokens.Sha256Hex(rawToken),
		UserID:    userID,
		JTI:       jti,
		ExpiresAt: expiresAt.Unix(),
	}
	return r.DB.WithContext(ctx).Create(&m).Error
}

// RefreshActive reports whether the token with this jti is known, unexpired
// and not revoked.
func (r *GormRepo) RefreshActive(ctx context.Context, jti string) (bool, error) {
	var m models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if m.Revoked || m.ExpiresAt < time.Now().Unix() {
		return false, nil
	}
	return true, nil
}

func (r *GormRepo) RevokeRefreshByJTI(ctx context.Context, jti string) error {
	return r.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("jti = ?", jti).
		Update("revoked", true).Error
}

func (r *GormRepo) RevokeRefreshByToken(ctx context.Context, rawToken string) error {
	return r.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token = ?", tokens.Sha256Hex(rawToken)).
		Update("revoked", true).Error
}
