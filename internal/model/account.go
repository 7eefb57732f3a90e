package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account - единственный счет пользователя
type Account struct {
	UserID    int64
	Balance   decimal.Decimal
	UpdatedAt time.Time
}

type Transfer struct {
	SenderID       int64
	RecipientEmail string
	Amount         decimal.Decimal
}
