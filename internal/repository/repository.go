package repository

import (
	"cashflow/internal/model"
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrNegativeBalance = errors.New("balance would become negative")
)

// Psql - построитель запросов с плейсхолдерами $1, $2...
var Psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DB - то, что репозиториям нужно от пула. Его реализуют *pgxpool.Pool и pgxmock,
// и он же передается в trmpgx.CtxGetter, когда транзакции в ctx нет
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (id int64, err error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, upd model.ProfileUpdate) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// AccountRepository - единственный компонент, которому разрешено менять балансы.
// Все изменения идут в транзакции из ctx, сам репозиторий ничего не коммитит
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	FindAccount(ctx context.Context, userID int64) (*model.Account, error)
	LockAccounts(ctx context.Context, userIDs ...int64) (map[int64]*model.Account, error)
	ApplyDelta(ctx context.Context, userID int64, delta decimal.Decimal) (*model.Account, error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	// DeleteSession возвращает ErrNotFound, если сессии уже нет
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteUserSessions(ctx context.Context, userID int64) error
}
