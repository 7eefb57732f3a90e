package auth_repo

import (
	"cashflow/internal/model"
	"cashflow/internal/repository"
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
)

const (
	table          = "sessions"
	colSessionID   = "session_id"
	colUserID      = "user_id"
	colRefreshHash = "refresh_hash"
	colExpiredTime = "expired_time"
)

type repo struct {
	dbc    repository.DB
	getter *trmpgx.CtxGetter
}

func NewAuthRepository(dbc repository.DB) repository.AuthRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// CreateSession - создает сессию в БД
// Принимает model.Session - (ID, UserID, RefreshToken, ExpiresAt)
func (r *repo) CreateSession(ctx context.Context, session *model.Session) error {
	query := repository.Psql.Insert(table).
		Columns(colSessionID, colUserID, colRefreshHash, colExpiredTime).
		Values(session.ID, session.UserID, session.RefreshToken, session.ExpiresAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("create session: %w", repository.MapError(err))
	}

	return nil
}

// GetSession - получить сессию по ее ID (jti refresh токена)
func (r *repo) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	query := repository.Psql.Select(colSessionID, colUserID, colRefreshHash, colExpiredTime).
		From(table).
		Where(sq.Eq{colSessionID: sessionID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var s model.Session
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).
		Scan(&s.ID, &s.UserID, &s.RefreshToken, &s.ExpiresAt)
	if err != nil {
		return nil, repository.MapError(err)
	}

	return &s, nil
}

// DeleteSession - удаляет сессию из БД.
// Принимает sessionID которую надо удалить
func (r *repo) DeleteSession(ctx context.Context, sessionID string) error {
	n, err := r.delete(ctx, sq.Eq{colSessionID: sessionID})
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteUserSessions - удаляет все сессии пользователя (logout)
func (r *repo) DeleteUserSessions(ctx context.Context, userID int64) error {
	_, err := r.delete(ctx, sq.Eq{colUserID: userID})
	return err
}

// delete возвращает число удаленных строк
func (r *repo) delete(ctx context.Context, where sq.Eq) (int64, error) {
	sqlStr, args, err := repository.Psql.Delete(table).Where(where).ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, repository.MapError(err)
	}

	return tag.RowsAffected(), nil
}
