package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Коды SQLSTATE, которые нас интересуют
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
	codeIdleInTxTimeout      = "25P03"
)

// MapError переводит ошибки pgx в ошибки репозитория
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return ErrAlreadyExists
		case codeCheckViolation:
			return ErrNegativeBalance
		}
	}

	return err
}

// IsTxConflict сообщает, что транзакция была прервана из-за конкуренции
// или таймаута, а не из-за недоступности хранилища
func IsTxConflict(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable,
			codeQueryCanceled, codeIdleInTxTimeout:
			return true
		}
	}

	return false
}
