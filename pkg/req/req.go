package req

import (
	"encoding/json"
	"errors"
	"io"
)

// maxBody - как limit: "16kb" в express
const maxBody = 16 << 10

// Decode - читает JSON тело запроса в T, неизвестные поля запрещены
func Decode[T any](body io.Reader) (T, error) {
	var v T

	dec := json.NewDecoder(io.LimitReader(body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	if dec.More() {
		return v, errors.New("unexpected data after json body")
	}

	return v, nil
}
