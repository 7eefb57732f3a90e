package req

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	To     string `json:"to"`
	Amount int    `json:"amount"`
}

func TestDecode(t *testing.T) {
	got, err := Decode[payload](strings.NewReader(`{"to":"b@x.io","amount":3}`))
	require.NoError(t, err)
	assert.Equal(t, payload{To: "b@x.io", Amount: 3}, got)

	_, err = Decode[payload](strings.NewReader(`{"to":"b@x.io","extra":1}`))
	assert.Error(t, err)

	_, err = Decode[payload](strings.NewReader(`{"to":"a"}{"to":"b"}`))
	assert.Error(t, err)

	_, err = Decode[payload](strings.NewReader(``))
	assert.Error(t, err)
}
