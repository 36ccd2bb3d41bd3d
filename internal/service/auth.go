package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"shop-backend/internal/hash"
	"shop-backend/internal/logging"
	"shop-backend/internal/models"
	"shop-backend/internal/repo"
	"shop-backend/internal/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type TokenPair struct {
	UserID     uint
	Access     string
	Refresh    string
	AccessExp  time.Time
	RefreshExp time.Time
}

func (s *AuthService) Signup(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		Role:         "user",
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			l.Warn("signup_failed", "status", 409, "reason", "email already registered")
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		l.Error("signup_failed", "status", 500, "reason", "db_error", "error", err)
		return nil, err
	}

	l.Info("signup_success", "user_id", user.ID)
	return &user, nil
}

func (s *AuthService) Signin(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signin")

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("signin_failed", "status", 404, "reason", "user not found")
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		l.Error("signin_failed", "status", 500, "reason", "db_error", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("signin_failed", "status", 400, "reason", "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		l.Error("signin_failed", "status", 500, "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	l.Info("signin_success", "user_id", user.ID)
	return pair, nil
}

// Refresh rotates the presented refresh token: the old jti is revoked and a
// fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(rawRefresh, s.RefreshSecret)
	if err != nil {
		l.Warn("refresh_failed", "status", 400, "reason", "invalid refresh token", "error", err)
		return nil, fmt.Errorf("%w: invalid refresh token", ErrInvalidCredentials)
	}

	active, err := s.Repo.RefreshActive(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		l.Warn("refresh_failed", "status", 400, "reason", "token expired or revoked")
		return nil, fmt.Errorf("%w: token expired or revoked", ErrInvalidCredentials)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject claim", ErrInvalidCredentials)
	}
	user, err := s.Repo.UserByID(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}

	if err := s.Repo.RevokeRefreshByJTI(ctx, claims.ID); err != nil {
		return nil, err
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	l.Info("refresh_success", "user_id", user.ID)
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if err := s.Repo.RevokeRefreshByToken(ctx, rawRefresh); err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		return err
	}
	l.Info("logout_success")
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	sub := strconv.FormatUint(uint64(user.ID), 10)

	accessExp := time.Now().Add(tokens.AccessTTL)
	access, err := tokens.SignAccess(sub, user.Role, accessExp, s.JWTSecret)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	refresh, err := tokens.SignRefresh(sub, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, err
	}

	claims, err := tokens.RefreshClaimsFromToken(refresh, s.RefreshSecret)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefresh(ctx, refresh, user.ID, claims.ID, refreshExp); err != nil {
		return nil, err
	}

	return &TokenPair{
		UserID:     user.ID,
		Access:     access,
		Refresh:    refresh,
		AccessExp:  accessExp,
		RefreshExp: refreshExp,
	}, nil
}
