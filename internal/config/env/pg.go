package env

import (
	"cashflow/internal/config"
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	dsnName       = "PG_DSN"
	txTimeoutName = "TX_TIMEOUT"

	defaultTxTimeout = 5 * time.Second
)

type pgConfig struct {
	dsn       string
	txTimeout time.Duration
}

func NewPGConfig() (config.PGConfig, error) {
	dsn := os.Getenv(dsnName)
	if len(dsn) == 0 {
		return nil, errors.New("pg dsn not found")
	}

	txTimeout := defaultTxTimeout
	if raw := os.Getenv(txTimeoutName); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid %s: %q", txTimeoutName, raw)
		}
		txTimeout = d
	}

	return &pgConfig{
		dsn:       dsn,
		txTimeout: txTimeout,
	}, nil
}

func (cfg *pgConfig) DSN() string {
	return cfg.dsn
}

func (cfg *pgConfig) TxTimeout() time.Duration {
	return cfg.txTimeout
}
