package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Общие примитивы документных таблиц (id, doc, created_at, updated_at).
// Имя таблицы всегда приходит из констант этого пакета, не от клиента.

func (s *Store) getDoc(ctx context.Context, table, id string, out any) (bool, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, table)

	var doc []byte
	err := s.pool.QueryRow(ctx, query, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil // nil для 404 выше по стеку
		}
		return false, fmt.Errorf("postgres: fetch from %s failed: %w", table, err)
	}

	if err := json.Unmarshal(doc, out); err != nil {
		return false, fmt.Errorf("postgres: corrupt document in %s: %w", table, err)
	}
	return true, nil
}

func (s *Store) insertDoc(ctx context.Context, table, id string, res any) error {
	doc, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("postgres: marshal for %s failed: %w", table, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, doc, created_at, updated_at) VALUES ($1, $2, NOW(), NOW())`, table)
	if _, err := s.pool.Exec(ctx, query, id, doc); err != nil {
		return fmt.Errorf("postgres: insert into %s failed: %w", table, err)
	}
	return nil
}

func (s *Store) updateDoc(ctx context.Context, table, id string, res any) error {
	doc, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("postgres: marshal for %s failed: %w", table, err)
	}

	query := fmt.Sprintf(`UPDATE %s SET doc = $2, updated_at = NOW() WHERE id = $1`, table)
	ct, err := s.pool.Exec(ctx, query, id, doc)
	if err != nil {
		return fmt.Errorf("postgres: update in %s failed: %w", table, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("postgres: %s record %s not found", table, id)
	}
	return nil
}

func (s *Store) deleteDoc(ctx context.Context, table, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)
	ct, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres: delete from %s failed: %w", table, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("postgres: %s record %s not found", table, id)
	}
	return nil
}

func (s *Store) listDocs(ctx context.Context, query string, args []any, scan func(doc []byte) error) error {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: list query failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return err
		}
		if err := scan(doc); err != nil {
			return err
		}
	}
	return rows.Err()
}
