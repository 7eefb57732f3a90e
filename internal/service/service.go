package service

import (
	"cashflow/internal/model"
	"context"

	"github.com/shopspring/decimal"
)

// AccountService - баланс и переводы между счетами
type AccountService interface {
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	Transfer(ctx context.Context, senderID int64, recipientEmail string, amount decimal.Decimal) error
}

// TokenService - выпуск и проверка access/refresh токенов
type TokenService interface {
	IssueTokens(ctx context.Context, userID int64) (*model.AuthData, error)
	ValidateAccessToken(accessToken string) (*model.Identity, error)
	ValidateRefreshToken(ctx context.Context, refreshToken string) (*model.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*model.AuthData, error)
	Revoke(ctx context.Context, userID int64) error
}

type AuthService interface {
	Register(ctx context.Context, user *model.User, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.AuthData, error)
	Refresh(ctx context.Context, refreshToken string) (*model.AuthData, error)
	Logout(ctx context.Context, userID int64) error
	CurrentUser(ctx context.Context, userID int64) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, upd model.ProfileUpdate) error
	UpdatePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
}
