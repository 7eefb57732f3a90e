package account

import (
	"cashflow/internal/api"
	dto "cashflow/internal/api/dto/account"
	"cashflow/internal/apperr"
	"cashflow/internal/converter"
	"cashflow/internal/middleware"
	"cashflow/internal/service"
	"cashflow/pkg/req"
	"cashflow/pkg/resp"
	"net/http"

	"go.uber.org/zap"
)

type HandlerDeps struct {
	Serv service.AccountService
	Log  *zap.Logger
}

type Handler struct {
	serv service.AccountService
	log  *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log.Named("account_api")}
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		api.WriteError(w, r, h.log, apperr.ErrUnauthorized)
		return
	}

	balance, err := h.serv.GetBalance(r.Context(), userID)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	resp.WriteData(w, http.StatusOK, converter.ToBalanceResponse(balance), "Balance fetched successfully")
}

// Transfer - отправитель всегда текущий пользователь, получатель задается email
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		api.WriteError(w, r, h.log, apperr.ErrUnauthorized)
		return
	}

	payload, err := req.Decode[dto.TransferRequest](r.Body)
	if err != nil {
		api.BadRequest(w, err)
		return
	}

	t := converter.TransferRequestToModel(userID, &payload)
	if err := h.serv.Transfer(r.Context(), t.SenderID, t.RecipientEmail, t.Amount); err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	resp.WriteData(w, http.StatusOK, struct{}{}, "Amount transferred successfully")
}
