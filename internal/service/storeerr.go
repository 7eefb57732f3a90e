package service

import (
	"cashflow/internal/apperr"
	"cashflow/internal/repository"
	"errors"
)

// StoreError - доменные ошибки проходят как есть, конфликты и таймауты транзакции
// становятся TransactionAbort, все остальное - Persistence
func StoreError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if repository.IsTxConflict(err) || errors.Is(err, repository.ErrNegativeBalance) {
		return apperr.ErrTransactionAborted.Wrap(err)
	}

	return apperr.ErrPersistence.Wrap(err)
}
