package account

import (
	"cashflow/internal/apperr"
	"cashflow/internal/metrics"
	"cashflow/internal/service"
	"cashflow/internal/testutil/memstore"
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (service.AccountService, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	return NewAccountService(store, store, store, metrics.New(), zap.NewNop()), store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTransfer_Success(t *testing.T) {
	s, store := newService(t)
	a := store.Seed("a@x.io", "100.00")
	b := store.Seed("b@x.io", "50.00")

	require.NoError(t, s.Transfer(context.Background(), a, "b@x.io", dec("30.00")))

	assert.True(t, dec("70.00").Equal(store.Balance(a)))
	assert.True(t, dec("80.00").Equal(store.Balance(b)))
}

func TestTransfer_RecipientEmailIsNormalized(t *testing.T) {
	s, store := newService(t)
	a := store.Seed("a@x.io", "10")
	b := store.Seed("b@x.io", "0")

	require.NoError(t, s.Transfer(context.Background(), a, "  B@X.io ", dec("0.01")))

	assert.True(t, dec("9.99").Equal(store.Balance(a)))
	assert.True(t, dec("0.01").Equal(store.Balance(b)))
}

func TestTransfer_WholeBalance(t *testing.T) {
	s, store := newService(t)
	a := store.Seed("a@x.io", "10.00")
	b := store.Seed("b@x.io", "0")

	require.NoError(t, s.Transfer(context.Background(), a, "b@x.io", dec("10.00")))

	assert.True(t, store.Balance(a).IsZero())
	assert.True(t, dec("10").Equal(store.Balance(b)))
}

func TestTransfer_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		to      string
		amount  string
		wantErr error
	}{
		{"self", "a@x.io", "1.00", apperr.ErrSelfTransfer},
		{"self any amount", "A@x.io", "1000000", apperr.ErrSelfTransfer},
		{"insufficient", "b@x.io", "20.00", apperr.ErrInsufficientBalance},
		{"unknown recipient", "ghost@x.io", "1.00", apperr.ErrInvalidRecipient},
		{"recipient without account", "noacc@x.io", "1.00", apperr.ErrInvalidRecipientAccount},
		{"zero amount", "b@x.io", "0", apperr.ErrInvalidAmount},
		{"negative amount", "b@x.io", "-5", apperr.ErrInvalidAmount},
		{"sub-cent amount", "b@x.io", "0.001", apperr.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := newService(t)
			a := store.Seed("a@x.io", "10.00")
			b := store.Seed("b@x.io", "5.00")
			store.SeedUserOnly("noacc@x.io")

			err := s.Transfer(context.Background(), a, tt.to, dec(tt.amount))

			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, dec("10.00").Equal(store.Balance(a)))
			assert.True(t, dec("5.00").Equal(store.Balance(b)))
		})
	}
}

func TestTransfer_EmptyRecipient(t *testing.T) {
	s, store := newService(t)
	a := store.Seed("a@x.io", "10.00")

	err := s.Transfer(context.Background(), a, "   ", dec("1"))

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestTransfer_SenderWithoutAccount(t *testing.T) {
	s, store := newService(t)
	sender := store.SeedUserOnly("a@x.io")
	b := store.Seed("b@x.io", "5.00")

	err := s.Transfer(context.Background(), sender, "b@x.io", dec("1"))

	require.ErrorIs(t, err, apperr.ErrSenderAccountNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.True(t, dec("5.00").Equal(store.Balance(b)))
}

// Проверки идут в фиксированном порядке: нехватка средств раньше неизвестного получателя
func TestTransfer_CheckOrder(t *testing.T) {
	s, store := newService(t)
	a := store.Seed("a@x.io", "1.00")

	err := s.Transfer(context.Background(), a, "ghost@x.io", dec("2.00"))
	assert.ErrorIs(t, err, apperr.ErrInsufficientBalance)

	sender := store.SeedUserOnly("c@x.io")
	err = s.Transfer(context.Background(), sender, "ghost@x.io", dec("2.00"))
	assert.ErrorIs(t, err, apperr.ErrSenderAccountNotFound)
}

func TestTransfer_CreditFailureRollsBackDebit(t *testing.T) {
	s, store := newService(t)
	a := store.Seed("a@x.io", "100.00")
	b := store.Seed("b@x.io", "50.00")

	var attempts int
	store.FailApplyDelta = func(userID int64, delta decimal.Decimal) error {
		attempts++
		if userID == b {
			return errors.New("disk full")
		}
		return nil
	}

	err := s.Transfer(context.Background(), a, "b@x.io", dec("30.00"))

	require.ErrorIs(t, err, apperr.ErrPersistence)
	assert.Equal(t, 2, attempts, "debit must be attempted before the failing credit")
	assert.True(t, dec("100.00").Equal(store.Balance(a)))
	assert.True(t, dec("50.00").Equal(store.Balance(b)))
}

func TestTransfer_CommitFailure(t *testing.T) {
	s, store := newService(t)
	a := store.Seed("a@x.io", "100.00")
	b := store.Seed("b@x.io", "50.00")
	store.CommitErr = context.DeadlineExceeded

	err := s.Transfer(context.Background(), a, "b@x.io", dec("30.00"))

	require.ErrorIs(t, err, apperr.ErrTransactionAborted)
	assert.True(t, dec("100.00").Equal(store.Balance(a)))
	assert.True(t, dec("50.00").Equal(store.Balance(b)))
}

func TestTransfer_ConcurrentDebitsDoNotOverdraw(t *testing.T) {
	s, store := newService(t)
	a := store.Seed("a@x.io", "100.00")
	store.Seed("b@x.io", "0")
	store.Seed("c@x.io", "0")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, to := range []string{"b@x.io", "c@x.io"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.Transfer(context.Background(), a, to, dec("60.00"))
		}()
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperr.ErrInsufficientBalance):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.True(t, dec("40.00").Equal(store.Balance(a)))
	assert.True(t, dec("100.00").Equal(store.Total()))
}

func TestTransfer_ConservationAndNonNegativity(t *testing.T) {
	s, store := newService(t)
	emails := []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io"}
	ids := make([]int64, len(emails))
	for i, e := range emails {
		ids[i] = store.Seed(e, "250.00")
	}
	total := store.Total()

	rnd := rand.New(rand.NewPCG(1, 2))
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		seed := rnd.Uint64()
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := rand.New(rand.NewPCG(seed, seed))
			for i := 0; i < 50; i++ {
				from := ids[r.IntN(len(ids))]
				to := emails[r.IntN(len(emails))]
				amount := decimal.New(int64(r.IntN(20000)+1), -2)

				err := s.Transfer(context.Background(), from, to, amount)
				if err != nil {
					k := apperr.KindOf(err)
					if k != apperr.KindSelfTransfer && k != apperr.KindInsufficientBalance {
						t.Errorf("unexpected error: %v", err)
					}
				}
			}
		}()
	}
	wg.Wait()

	assert.True(t, total.Equal(store.Total()), "total changed: %s -> %s", total, store.Total())
	for _, id := range ids {
		assert.False(t, store.Balance(id).IsNegative())
	}
}
