package account

import (
	"cashflow/internal/metrics"
	"cashflow/internal/repository"
	"cashflow/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"
)

type serv struct {
	accountRepo repository.AccountRepository
	userRepo    repository.UserRepository
	txManager   trm.Manager
	metrics     *metrics.Metrics
	log         *zap.Logger
}

// NewAccountService - баланс и переводы. Балансы меняются только внутри txManager.Do
func NewAccountService(
	accountRepo repository.AccountRepository,
	userRepo repository.UserRepository,
	txManager trm.Manager,
	m *metrics.Metrics,
	log *zap.Logger,
) service.AccountService {
	return &serv{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		txManager:   txManager,
		metrics:     m,
		log:         log.Named("account"),
	}
}
