package converter

import (
	dto "cashflow/internal/api/dto/account"
	"cashflow/internal/model"

	"github.com/shopspring/decimal"
)

func TransferRequestToModel(senderID int64, req *dto.TransferRequest) model.Transfer {
	return model.Transfer{
		SenderID:       senderID,
		RecipientEmail: req.To,
		Amount:         req.Amount,
	}
}

func ToBalanceResponse(balance decimal.Decimal) dto.BalanceResponse {
	return dto.BalanceResponse{Balance: balance.StringFixed(2)}
}
