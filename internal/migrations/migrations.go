package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// gooseUp - точка подмены для тестов
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// Up накатывает встроенные миграции через пул pgx
func Up(ctx context.Context, pool *pgxpool.Pool) error {
	goose.SetBaseFS(FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}
