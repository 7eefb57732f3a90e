// Package api - общие части HTTP слоя: отображение ошибок ядра в статусы
package api

import (
	"cashflow/internal/apperr"
	"cashflow/pkg/resp"
	"net/http"

	"go.uber.org/zap"
)

// StatusOf - у каждого Kind свой статус
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindSelfTransfer:
		return http.StatusUnprocessableEntity
	case apperr.KindInsufficientBalance:
		return http.StatusConflict
	case apperr.KindInvalidRecipient:
		return http.StatusBadRequest
	case apperr.KindTransactionAbort:
		return http.StatusServiceUnavailable
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindPersistence, apperr.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteError пишет ошибку клиенту. Причина серверных ошибок наружу не уходит, только в лог
func WriteError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	status := StatusOf(kind)

	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
	}

	resp.WriteError(w, status, kind.String(), apperr.Message(err))
}

// BadRequest - тело запроса не разобралось
func BadRequest(w http.ResponseWriter, err error) {
	resp.WriteError(w, http.StatusBadRequest, apperr.KindValidation.String(), "incorrect inputs: "+err.Error())
}
