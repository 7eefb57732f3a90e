package app

import (
	accountAPI "cashflow/internal/api/account"
	authAPI "cashflow/internal/api/auth"
	"cashflow/internal/config"
	"cashflow/internal/config/env"
	"cashflow/internal/logger"
	"cashflow/internal/metrics"
	"cashflow/internal/middleware"
	"cashflow/internal/repository"
	"cashflow/internal/repository/account_repo"
	"cashflow/internal/repository/auth_repo"
	"cashflow/internal/repository/user_repo"
	"cashflow/internal/service"
	"cashflow/internal/service/account"
	"cashflow/internal/service/auth"
	"cashflow/internal/service/token"
	"context"
	"net/http"
	"os"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/avito-tech/go-transaction-manager/trm/v2/settings"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	configPathEnvName = "CONFIG_PATH"
	defaultConfigPath = "config.yaml"
)

type ServiceProvider struct {
	//TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Observability
	logCfg  config.LogConfig
	log     *zap.Logger
	metrics *metrics.Metrics

	// Auth bits
	jwtCfg   config.JWTConfig
	authRepo repository.AuthRepository
	tokens   service.TokenService
	authServ service.AuthService
	authHand *authAPI.Handler

	// User bits
	userRepo repository.UserRepository

	// Account bits
	accountCfg  config.AccountConfig
	accountRepo repository.AccountRepository
	accountServ service.AccountService
	accountHand *accountAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) LogCfg() config.LogConfig {
	if sp.logCfg == nil {
		sp.logCfg = env.NewLogConfig()
	}
	return sp.logCfg
}

func (sp *ServiceProvider) Logger() *zap.Logger {
	if sp.log == nil {
		l, err := logger.New(sp.LogCfg().Level())
		if err != nil {
			panic("failed to create logger: " + err.Error())
		}
		sp.log = l
	}
	return sp.log
}

func (sp *ServiceProvider) Metrics() *metrics.Metrics {
	if sp.metrics == nil {
		sp.metrics = metrics.New()
	}
	return sp.metrics
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

// TXManager - у каждой транзакции свой таймаут, по его истечении она откатывается
func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		s := trmpgx.MustSettings(settings.Must(
			settings.WithTimeout(sp.PgConfig().TxTimeout()),
		))

		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)), manager.WithSettings(s))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}

		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) AccountCfg() config.AccountConfig {
	if sp.accountCfg == nil {
		path := os.Getenv(configPathEnvName)
		if path == "" {
			path = defaultConfigPath
		}

		cfg, err := env.NewAccountConfigFromYAML(path)
		if err != nil {
			panic("failed to get account config: " + err.Error())
		}
		sp.accountCfg = cfg
	}
	return sp.accountCfg
}

func (sp *ServiceProvider) AuthRepo(ctx context.Context) repository.AuthRepository {
	if sp.authRepo == nil {
		sp.authRepo = auth_repo.NewAuthRepository(sp.DBClient(ctx))
	}
	return sp.authRepo
}

func (sp *ServiceProvider) UserRepo(ctx context.Context) repository.UserRepository {
	if sp.userRepo == nil {
		sp.userRepo = user_repo.NewUserRepository(sp.DBClient(ctx))
	}
	return sp.userRepo
}

func (sp *ServiceProvider) AccountRepo(ctx context.Context) repository.AccountRepository {
	if sp.accountRepo == nil {
		sp.accountRepo = account_repo.NewAccountRepository(sp.DBClient(ctx))
	}
	return sp.accountRepo
}

func (sp *ServiceProvider) TokenService(ctx context.Context) service.TokenService {
	if sp.tokens == nil {
		sp.tokens = token.NewTokenService(
			sp.TXManager(ctx),
			sp.UserRepo(ctx),
			sp.AuthRepo(ctx),
			sp.JWTCfg(),
			sp.Logger(),
		)
	}
	return sp.tokens
}

func (sp *ServiceProvider) AuthService(ctx context.Context) service.AuthService {
	if sp.authServ == nil {
		sp.authServ = auth.NewAuthService(
			sp.TXManager(ctx),
			sp.UserRepo(ctx),
			sp.AccountRepo(ctx),
			sp.TokenService(ctx),
			sp.AccountCfg(),
			sp.Metrics(),
			sp.Logger(),
		)
	}
	return sp.authServ
}

func (sp *ServiceProvider) AccountService(ctx context.Context) service.AccountService {
	if sp.accountServ == nil {
		sp.accountServ = account.NewAccountService(
			sp.AccountRepo(ctx),
			sp.UserRepo(ctx),
			sp.TXManager(ctx),
			sp.Metrics(),
			sp.Logger(),
		)
	}
	return sp.accountServ
}

func (sp *ServiceProvider) AuthHandler(ctx context.Context) *authAPI.Handler {
	if sp.authHand == nil {
		sp.authHand = authAPI.NewHandler(authAPI.HandlerDeps{
			Serv:          sp.AuthService(ctx),
			Log:           sp.Logger(),
			AccessTTL:     sp.JWTCfg().AccessTokenDuration(),
			RefreshTTL:    sp.JWTCfg().RefreshTokenDuration(),
			SecureCookies: sp.HTTPCfg().SecureCookies(),
		})
	}
	return sp.authHand
}

func (sp *ServiceProvider) AccountHandler(ctx context.Context) *accountAPI.Handler {
	if sp.accountHand == nil {
		sp.accountHand = accountAPI.NewHandler(accountAPI.HandlerDeps{
			Serv: sp.AccountService(ctx),
			Log:  sp.Logger(),
		})
	}
	return sp.accountHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		sp.router = newRouter(routerDeps{
			origins:     sp.HTTPCfg().CORSOrigins(),
			tokens:      sp.TokenService(ctx),
			authHand:    sp.AuthHandler(ctx),
			accountHand: sp.AccountHandler(ctx),
			metrics:     sp.Metrics(),
			log:         sp.Logger(),
		})
	}

	return sp.router
}

type routerDeps struct {
	origins     []string
	tokens      service.TokenService
	authHand    *authAPI.Handler
	accountHand *accountAPI.Handler
	metrics     *metrics.Metrics
	log         *zap.Logger
}

func newRouter(deps routerDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.log))
	r.Use(chimw.Recoverer)

	// CORS middleware. Cookies требуют явного списка origin, с "*" credentials выключены
	allowCredentials := len(deps.origins) > 0
	origins := deps.origins
	if !allowCredentials {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: allowCredentials,
		MaxAge:           60 * 15,
	}))

	authGate := middleware.Auth(deps.tokens, deps.log)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", deps.metrics.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		// User endpoints
		api.Route("/users", func(rr chi.Router) {
			rr.Post("/signup", deps.authHand.Signup)
			rr.Post("/signin", deps.authHand.Signin)
			rr.Post("/refresh", deps.authHand.Refresh)

			rr.Group(func(pr chi.Router) {
				pr.Use(authGate)
				pr.Patch("/update", deps.authHand.Update)
				pr.Patch("/update-password", deps.authHand.UpdatePassword)
				pr.Post("/logout", deps.authHand.Logout)
				pr.Get("/get-current-user", deps.authHand.CurrentUser)
			})
		})

		// Account endpoints
		api.Route("/account", func(rr chi.Router) {
			rr.Use(authGate)
			rr.Get("/get-balance", deps.accountHand.GetBalance)
			rr.Post("/transfer", deps.accountHand.Transfer)
		})
	})

	return r
}
