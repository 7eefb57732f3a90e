package account

import (
	"cashflow/internal/apperr"
	"cashflow/internal/repository"
	"cashflow/internal/service"
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// GetBalance - баланс счета пользователя
func (s *serv) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	balance, err := s.accountRepo.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return decimal.Zero, apperr.ErrAccountNotFound
		}
		return decimal.Zero, service.StoreError(err)
	}

	return balance, nil
}
