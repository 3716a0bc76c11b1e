// AngelaMos | 2026
// postgres.go

package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/kv/migrations"
)

// PostgresStore keeps every document in a single kv_store table with a JSONB
// value column, matching the key/value storage model the product started on.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

func (s *PostgresStore) Get(
	ctx context.Context,
	key string,
) (json.RawMessage, error) {
	query := `SELECT value FROM kv_store WHERE key = $1`

	var value []byte
	err := s.db.GetContext(ctx, &value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %q: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}

	return value, nil
}

func (s *PostgresStore) Set(
	ctx context.Context,
	key string,
	value json.RawMessage,
) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, key, []byte(value)); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	return nil
}

func (s *PostgresStore) SetNX(
	ctx context.Context,
	key string,
	value json.RawMessage,
) (bool, error) {
	query := `
		INSERT INTO kv_store (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query, key, []byte(value))
	if err != nil {
		return false, fmt.Errorf("setnx %q: %w", key, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("setnx %q: %w", key, err)
	}

	return rows > 0, nil
}

func (s *PostgresStore) SetMulti(ctx context.Context, pairs []Pair) error {
	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO kv_store (key, value, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE
			SET value = EXCLUDED.value, updated_at = NOW()`

		for _, pair := range pairs {
			if _, err := tx.ExecContext(
				ctx,
				query,
				pair.Key,
				[]byte(pair.Value),
			); err != nil {
				return fmt.Errorf("set %q: %w", pair.Key, err)
			}
		}

		return nil
	})
}

func (s *PostgresStore) CompareAndSwap(
	ctx context.Context,
	key string,
	old, next json.RawMessage,
) (bool, error) {
	// JSONB equality is semantic, so the comparison is insensitive to the
	// whitespace and field order of the serialized old value.
	query := `
		UPDATE kv_store
		SET value = $3, updated_at = NOW()
		WHERE key = $1 AND value = $2::jsonb`

	result, err := s.db.ExecContext(
		ctx,
		query,
		key,
		[]byte(old),
		[]byte(next),
	)
	if err != nil {
		return false, fmt.Errorf("cas %q: %w", key, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("cas %q: %w", key, err)
	}

	if rows > 0 {
		return true, nil
	}

	// Distinguish a lost race from a missing key.
	if _, err := s.Get(ctx, key); err != nil {
		return false, err
	}

	return false, nil
}

func (s *PostgresStore) GetByPrefix(
	ctx context.Context,
	prefix string,
) ([]json.RawMessage, error) {
	query := `SELECT value FROM kv_store WHERE key LIKE $1`

	var rows [][]byte
	err := s.db.SelectContext(ctx, &rows, query, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("get by prefix %q: %w", prefix, err)
	}

	values := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		values = append(values, json.RawMessage(row))
	}

	return values, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE key = $1`

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}

	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

var _ Store = (*PostgresStore)(nil)
