package auth

import (
	"cashflow/internal/apperr"
	"cashflow/internal/model"
	"cashflow/internal/repository"
	"cashflow/internal/service"
	"cashflow/pkg/pass"
	"context"
	"errors"

	"go.uber.org/zap"
)

func (s *serv) Login(ctx context.Context, email, password string) (*model.AuthData, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("all fields are required")
	}

	// Получение пользователя из бд по email
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		s.metrics.ObserveAuth("signin", "error")
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, service.StoreError(err)
	}

	// Верификация пароля
	if !pass.VerifyPassword(user.PasswordHash, password) {
		s.metrics.ObserveAuth("signin", "denied")
		return nil, apperr.ErrIncorrectPassword
	}

	data, err := s.tokens.IssueTokens(ctx, user.ID)
	if err != nil {
		s.metrics.ObserveAuth("signin", "error")
		return nil, err
	}

	s.metrics.ObserveAuth("signin", "ok")
	s.log.Info("user signed in", zap.Int64("user_id", user.ID))

	return data, nil
}

// Logout закрывает сессии пользователя
func (s *serv) Logout(ctx context.Context, userID int64) error {
	if err := s.tokens.Revoke(ctx, userID); err != nil {
		return err
	}

	s.metrics.ObserveAuth("logout", "ok")

	return nil
}
