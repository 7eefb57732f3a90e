package account

import (
	"cashflow/internal/apperr"
	"cashflow/internal/model"
	"cashflow/internal/repository"
	"cashflow/internal/service"
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Transfer - переводит amount со счета senderID на счет пользователя recipientEmail.
// Получатель ищется до транзакции (только чтение). В транзакции оба счета
// блокируются, проверяются и меняются двумя записями; любая ошибка откатывает обе
func (s *serv) Transfer(ctx context.Context, senderID int64, recipientEmail string, amount decimal.Decimal) (err error) {
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = apperr.KindOf(err).String()
		}
		s.metrics.ObserveTransfer(result, time.Since(start))
	}()

	if !amount.IsPositive() || !amount.Equal(amount.Truncate(2)) {
		return apperr.ErrInvalidAmount
	}
	recipientEmail = model.NormalizeEmail(recipientEmail)
	if recipientEmail == "" {
		return apperr.Validation("recipient email is required")
	}

	recipient, err := s.userRepo.GetUserByEmail(ctx, recipientEmail)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		recipient = nil
	case err != nil:
		return service.StoreError(err)
	}

	if recipient != nil && recipient.ID == senderID {
		return apperr.ErrSelfTransfer
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		ids := []int64{senderID}
		if recipient != nil {
			ids = append(ids, recipient.ID)
		}

		// Блокируем оба счета сразу: баланс отправителя не может измениться до коммита
		accounts, err := s.accountRepo.LockAccounts(ctx, ids...)
		if err != nil {
			return err
		}

		sender, ok := accounts[senderID]
		if !ok {
			return apperr.ErrSenderAccountNotFound
		}
		if sender.Balance.LessThan(amount) {
			return apperr.ErrInsufficientBalance
		}
		if recipient == nil {
			return apperr.ErrInvalidRecipient
		}
		if _, ok := accounts[recipient.ID]; !ok {
			return apperr.ErrInvalidRecipientAccount
		}

		if _, err := s.accountRepo.ApplyDelta(ctx, senderID, amount.Neg()); err != nil {
			return err
		}
		if _, err := s.accountRepo.ApplyDelta(ctx, recipient.ID, amount); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		err = service.StoreError(err)
		fields := []zap.Field{
			zap.Int64("sender_id", senderID),
			zap.String("amount", amount.String()),
			zap.Error(err),
		}
		switch apperr.KindOf(err) {
		case apperr.KindTransactionAbort, apperr.KindPersistence:
			s.log.Error("transfer aborted", fields...)
		default:
			s.log.Info("transfer rejected", fields...)
		}
		return err
	}

	s.log.Info("transfer completed",
		zap.Int64("sender_id", senderID),
		zap.Int64("recipient_id", recipient.ID),
		zap.String("amount", amount.String()),
	)

	return nil
}
