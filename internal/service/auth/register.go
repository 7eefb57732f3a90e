package auth

import (
	"cashflow/internal/apperr"
	"cashflow/internal/model"
	"cashflow/internal/repository"
	"cashflow/internal/service"
	"cashflow/pkg/pass"
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Register - создает пользователя и его счет в одной транзакции.
// Начальный баланс берется из политики в конфигурации
func (s *serv) Register(ctx context.Context, user *model.User, password string) (*model.User, error) {
	user.Email = model.NormalizeEmail(user.Email)
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)
	if user.Email == "" || user.FirstName == "" || user.LastName == "" || password == "" {
		return nil, apperr.Validation("all fields are required")
	}
	if len(password) < pass.MinLength {
		return nil, apperr.Validation("password is too short")
	}

	// Хэширование пароля пользователя
	passwordHash, err := pass.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = passwordHash

	balance := s.accountCfg.InitialBalance()

	var userID int64
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		id, err := s.userRepo.CreateUser(ctx, user)
		if err != nil {
			return err
		}
		userID = id

		return s.accountRepo.CreateAccount(ctx, &model.Account{
			UserID:  id,
			Balance: balance,
		})
	})
	if err != nil {
		s.metrics.ObserveAuth("signup", "error")
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperr.ErrEmailTaken
		}
		return nil, service.StoreError(err)
	}

	// ID появляется у пользователя только после коммита
	user.ID = userID

	s.metrics.ObserveAuth("signup", "ok")
	s.log.Info("user registered", zap.Int64("user_id", user.ID), zap.String("initial_balance", balance.String()))

	return user, nil
}
