package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const stmtCreateKV = `
	CREATE TABLE IF NOT EXISTS scheduler_kv (
		k          VARCHAR(64) NOT NULL PRIMARY KEY,
		v          LONGTEXT    NOT NULL,
		updated_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

const stmtUpsertKV = `
	INSERT INTO scheduler_kv (k, v) VALUES (?, ?)
	ON DUPLICATE KEY UPDATE v = VALUES(v)`

func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.mysql.Migrate"

	if _, err := s.db.ExecContext(ctx, stmtCreateKV); err != nil {
		return fmt.Errorf("%s: ошибка создания таблицы scheduler_kv: %w", op, err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "storage.mysql.Get"

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM scheduler_kv WHERE k = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s: ошибка чтения ключа %q: %w", op, key, err)
	}

	return value, true, nil
}

func (s *Storage) Set(ctx context.Context, key string, value string) error {
	const op = "storage.mysql.Set"

	if _, err := s.db.ExecContext(ctx, stmtUpsertKV, key, value); err != nil {
		return fmt.Errorf("%s: ошибка записи ключа %q: %w", op, key, err)
	}
	return nil
}

func (s *Storage) SetMany(ctx context.Context, values map[string]string) error {
	const op = "storage.mysql.SetMany"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, stmtUpsertKV)
	if err != nil {
		return fmt.Errorf("%s: ошибка подготовки запроса: %w", op, err)
	}
	defer stmt.Close()

	for k, v := range values {
		if _, err := stmt.ExecContext(ctx, k, v); err != nil {
			return fmt.Errorf("%s: ошибка записи ключа %q: %w", op, k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}
