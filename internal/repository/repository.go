// Пакет repository хранит сотрудников, тарифы и поставщиков бэк-офиса в PostgreSQL.
// SQL пишется вручную и выполняется через pgx.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound — сотрудник, тариф или поставщик с таким id отсутствует.
	ErrNotFound = errors.New("объект бэк-офиса не найден")
	// ErrConflict — занято уникальное поле (email, username или slug).
	ErrConflict = errors.New("уникальное поле уже занято")
)

// DBTX — общее подмножество *pgxpool.Pool и pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rowErr переводит ошибку pgx в ошибку репозитория; nil остаётся nil.
// conflict — текст для ErrConflict; пустой, если операция не пишет уникальных полей.
func rowErr(err error, op, conflict string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case conflict != "" && isUniqueViolation(err):
		return fmt.Errorf("%w: %s", ErrConflict, conflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// deleted проверяет, что DELETE затронул строку.
func deleted(tag pgconn.CommandTag, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation — SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
