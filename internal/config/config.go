package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

type HTTPConfig interface {
	Address() string
	CORSOrigins() []string
	SecureCookies() bool
}

type PGConfig interface {
	DSN() string
	TxTimeout() time.Duration
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	RefreshTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
	RefreshTokenDuration() time.Duration
}

// AccountConfig - политика начального баланса нового счета
type AccountConfig interface {
	InitialBalance() decimal.Decimal
}

type LogConfig interface {
	Level() string
}
