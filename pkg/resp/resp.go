package resp

import (
	"encoding/json"
	"net/http"
)

// Response - общий конверт успешного ответа
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

func WriteJSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData - ответ в конверте Response
func WriteData(w http.ResponseWriter, status int, data any, msg string) {
	WriteJSONResponse(w, status, Response{
		StatusCode: status,
		Data:       data,
		Message:    msg,
		Success:    status < http.StatusBadRequest,
	})
}

func WriteError(w http.ResponseWriter, status int, kind, msg string) {
	WriteJSONResponse(w, status, ErrorResponse{Message: msg, Kind: kind})
}
