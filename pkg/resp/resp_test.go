package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteData(t *testing.T) {
	w := httptest.NewRecorder()

	WriteData(w, http.StatusOK, map[string]string{"balance": "1.00"}, "ok")

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"statusCode":200,"data":{"balance":"1.00"},"message":"ok","success":true}`, w.Body.String())
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusConflict, "insufficient_balance", "insufficient balance")

	require.Equal(t, http.StatusConflict, w.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, ErrorResponse{Message: "insufficient balance", Kind: "insufficient_balance"}, body)
}
