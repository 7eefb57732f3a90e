package account_repo

import (
	"cashflow/internal/model"
	"cashflow/internal/repository"
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/shopspring/decimal"
)

const (
	table        = "accounts"
	colUserID    = "user_id"
	colBalance   = "balance"
	colUpdatedAt = "updated_at"

	// numeric(20,2) читаем как текст, чтобы не терять точность
	selBalance = colBalance + "::text"
)

type repo struct {
	dbc    repository.DB
	getter *trmpgx.CtxGetter
}

func NewAccountRepository(dbc repository.DB) repository.AccountRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// CreateAccount - создает счет пользователя с начальным балансом
func (r *repo) CreateAccount(ctx context.Context, account *model.Account) error {
	query := repository.Psql.Insert(table).
		Columns(colUserID, colBalance).
		Values(account.UserID, sq.Expr("?::numeric", account.Balance.String()))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("create account: %w", repository.MapError(err))
	}

	return nil
}

// GetBalance - получение баланса пользователя по его ID
func (r *repo) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	acc, err := r.FindAccount(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return acc.Balance, nil
}

// FindAccount - счет пользователя без блокировки
func (r *repo) FindAccount(ctx context.Context, userID int64) (*model.Account, error) {
	query := repository.Psql.Select(colUserID, selBalance, colUpdatedAt).
		From(table).
		Where(sq.Eq{colUserID: userID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	row := r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...)

	return scanAccount(row)
}

// LockAccounts - блокирует строки счетов (FOR UPDATE) в порядке возрастания user_id,
// чтобы встречные переводы не вставали в дедлок. Отсутствующих счетов нет в результате
func (r *repo) LockAccounts(ctx context.Context, userIDs ...int64) (map[int64]*model.Account, error) {
	query := repository.Psql.Select(colUserID, selBalance, colUpdatedAt).
		From(table).
		Where(sq.Eq{colUserID: userIDs}).
		OrderBy(colUserID).
		Suffix("FOR UPDATE")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, repository.MapError(err)
	}
	defer rows.Close()

	accounts := make(map[int64]*model.Account, len(userIDs))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts[acc.UserID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapError(err)
	}

	return accounts, nil
}

// ApplyDelta - прибавляет delta к балансу в транзакции из ctx.
// Уход в минус отсекает CHECK (balance >= 0)
func (r *repo) ApplyDelta(ctx context.Context, userID int64, delta decimal.Decimal) (*model.Account, error) {
	query := repository.Psql.Update(table).
		Set(colBalance, sq.Expr(colBalance+" + ?::numeric", delta.String())).
		Set(colUpdatedAt, sq.Expr("now()")).
		Where(sq.Eq{colUserID: userID}).
		Suffix("RETURNING " + colUserID + ", " + selBalance + ", " + colUpdatedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	row := r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...)

	return scanAccount(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*model.Account, error) {
	var (
		acc     model.Account
		balance string
		updated time.Time
	)
	if err := row.Scan(&acc.UserID, &balance, &updated); err != nil {
		return nil, repository.MapError(err)
	}

	b, err := decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("parse balance %q: %w", balance, err)
	}
	acc.Balance = b
	acc.UpdatedAt = updated

	return &acc, nil
}
