package token

import (
	"cashflow/internal/config"
	"cashflow/internal/repository"
	"cashflow/internal/service"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"
)

type serv struct {
	txManager trm.Manager
	userRepo  repository.UserRepository
	authRepo  repository.AuthRepository
	jwtConfig config.JWTConfig
	log       *zap.Logger

	now func() time.Time
}

func NewTokenService(
	txManager trm.Manager,
	userRepo repository.UserRepository,
	authRepo repository.AuthRepository,
	jwtConfig config.JWTConfig,
	log *zap.Logger,
) service.TokenService {
	return &serv{
		txManager: txManager,
		userRepo:  userRepo,
		authRepo:  authRepo,
		jwtConfig: jwtConfig,
		log:       log.Named("token"),
		now:       time.Now,
	}
}
