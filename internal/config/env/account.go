package env

import (
	"cashflow/internal/config"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	ModeFixed  = "fixed"
	ModeRandom = "random"
)

type accountFile struct {
	Account struct {
		InitialBalance struct {
			Mode   string `yaml:"mode"`
			Amount string `yaml:"amount"`
			Min    string `yaml:"min"`
			Max    string `yaml:"max"`
		} `yaml:"initial_balance"`
	} `yaml:"account"`
}

type accountConfig struct {
	mode   string
	amount decimal.Decimal
	min    decimal.Decimal
	max    decimal.Decimal
}

// NewAccountConfigFromYAML - читает политику начального баланса из yaml.
// Если файла нет, новый счет открывается с нулевым балансом
func NewAccountConfigFromYAML(path string) (config.AccountConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &accountConfig{mode: ModeFixed, amount: decimal.Zero}, nil
		}
		return nil, err
	}

	return parseAccountConfig(data)
}

func parseAccountConfig(data []byte) (config.AccountConfig, error) {
	var f accountFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse account config: %w", err)
	}

	ib := f.Account.InitialBalance
	cfg := &accountConfig{mode: ib.Mode}

	switch ib.Mode {
	case "", ModeFixed:
		cfg.mode = ModeFixed
		amount, err := decimalOrZero(ib.Amount)
		if err != nil {
			return nil, fmt.Errorf("initial_balance.amount: %w", err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("initial_balance.amount must not be negative")
		}
		cfg.amount = amount.Round(2)
	case ModeRandom:
		lo, err := decimal.NewFromString(ib.Min)
		if err != nil {
			return nil, fmt.Errorf("initial_balance.min: %w", err)
		}
		hi, err := decimal.NewFromString(ib.Max)
		if err != nil {
			return nil, fmt.Errorf("initial_balance.max: %w", err)
		}
		if lo.IsNegative() || hi.LessThan(lo) {
			return nil, fmt.Errorf("initial_balance range [%s, %s] is invalid", lo, hi)
		}
		cfg.min, cfg.max = lo, hi
	default:
		return nil, fmt.Errorf("unknown initial_balance.mode %q", ib.Mode)
	}

	return cfg, nil
}

func decimalOrZero(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// InitialBalance - для random: равномерно в [min, max], округление до копеек
func (cfg *accountConfig) InitialBalance() decimal.Decimal {
	if cfg.mode != ModeRandom {
		return cfg.amount
	}

	span := cfg.max.Sub(cfg.min)
	v := cfg.min.Add(span.Mul(decimal.NewFromFloat(rand.Float64()))).Round(2)
	if v.GreaterThan(cfg.max) {
		return cfg.max.Round(2)
	}

	return v
}
