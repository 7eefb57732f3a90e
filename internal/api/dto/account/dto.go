package account

import "github.com/shopspring/decimal"

type TransferRequest struct {
	To     string          `json:"to"`     // email получателя
	Amount decimal.Decimal `json:"amount"` // число или строка, не больше двух знаков после запятой
}

type BalanceResponse struct {
	Balance string `json:"balance"` // всегда с двумя знаками
}
