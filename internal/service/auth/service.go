package auth

import (
	"cashflow/internal/config"
	"cashflow/internal/metrics"
	"cashflow/internal/repository"
	"cashflow/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"
)

type serv struct {
	txManager   trm.Manager
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
	tokens      service.TokenService
	accountCfg  config.AccountConfig
	metrics     *metrics.Metrics
	log         *zap.Logger
}

func NewAuthService(
	txManager trm.Manager,
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	tokens service.TokenService,
	accountCfg config.AccountConfig,
	m *metrics.Metrics,
	log *zap.Logger,
) service.AuthService {
	return &serv{
		txManager:   txManager,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		tokens:      tokens,
		accountCfg:  accountCfg,
		metrics:     m,
		log:         log.Named("auth"),
	}
}
