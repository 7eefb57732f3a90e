package user_repo

import (
	"cashflow/internal/model"
	"cashflow/internal/repository"
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
)

const (
	table           = "users"
	colID           = "id"
	colEmail        = "email"
	colFirstName    = "first_name"
	colLastName     = "last_name"
	colPasswordHash = "password_hash"
	colCreatedAt    = "created_at"
)

type repo struct {
	dbc    repository.DB
	getter *trmpgx.CtxGetter
}

func NewUserRepository(dbc repository.DB) repository.UserRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// CreateUser - создает нового пользователя в БД.
// Возвращает ID созданного пользователя
func (r *repo) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	query := repository.Psql.Insert(table).
		Columns(colEmail, colFirstName, colLastName, colPasswordHash).
		Values(user.Email, user.FirstName, user.LastName, user.PasswordHash).
		Suffix("RETURNING " + colID)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", repository.MapError(err))
	}

	return id, nil
}

// GetUserByID - возвращает пользователя по ID
func (r *repo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, colID, id)
}

// GetUserByEmail - возвращает пользователя по email (email хранится в нижнем регистре)
func (r *repo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, colEmail, email)
}

func (r *repo) getOne(ctx context.Context, col string, val any) (*model.User, error) {
	query := repository.Psql.Select(colID, colEmail, colFirstName, colLastName, colPasswordHash, colCreatedAt).
		From(table).
		Where(sq.Eq{col: val})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var user model.User
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).
		Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, repository.MapError(err)
	}

	return &user, nil
}

// UpdateProfile - обновляет только переданные поля профиля
func (r *repo) UpdateProfile(ctx context.Context, id int64, upd model.ProfileUpdate) error {
	query := repository.Psql.Update(table).Where(sq.Eq{colID: id})
	if upd.FirstName != nil {
		query = query.Set(colFirstName, *upd.FirstName)
	}
	if upd.LastName != nil {
		query = query.Set(colLastName, *upd.LastName)
	}

	return r.execOne(ctx, query.ToSql)
}

// UpdatePasswordHash - сохраняет новый хэш пароля
func (r *repo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	query := repository.Psql.Update(table).
		Set(colPasswordHash, hash).
		Where(sq.Eq{colID: id})

	return r.execOne(ctx, query.ToSql)
}

func (r *repo) execOne(ctx context.Context, build func() (string, []any, error)) error {
	sqlStr, args, err := build()
	if err != nil {
		return err
	}

	tag, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return repository.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
