package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xela07ax/teamcrm/internal/domain"
)

// ActivityRepo — append-only хранилище журнала активности.
// Записи только добавляются и читаются; методов изменения и удаления
// у репозитория нет намеренно.
type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(store *Store) *ActivityRepo {
	return &ActivityRepo{pool: store.pool}
}

// WriteBatch сохраняет пачку записей одной вставкой.
func (r *ActivityRepo) WriteBatch(ctx context.Context, entries []domain.ActivityEntry) error {
	if len(entries) == 0 {
		return nil
	}

	// Количество колонок в таблице activities
	numFields := 9
	placeholderStr := ""
	vals := make([]interface{}, 0, len(entries)*numFields)

	// Динамически строим запрос для пакетной вставки
	for i, e := range entries {
		p := i * numFields
		placeholderStr += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d),",
			p+1, p+2, p+3, p+4, p+5, p+6, p+7, p+8, p+9)

		meta, _ := json.Marshal(e.Metadata)

		vals = append(vals,
			e.ID, e.Type, e.EntityType, e.EntityID,
			e.ActorID, e.ActorName, e.Description, meta, e.Timestamp,
		)
	}

	// Убираем лишнюю запятую в конце
	query := fmt.Sprintf(
		"INSERT INTO activities (id, type, entity_type, entity_id, actor_id, actor_name, description, metadata, timestamp) VALUES %s",
		strings.TrimSuffix(placeholderStr, ","),
	)

	_, err := r.pool.Exec(ctx, query, vals...)
	return err
}

// List возвращает записи журнала по фильтру, свежие первыми.
func (r *ActivityRepo) List(ctx context.Context, f domain.ActivityFilter) ([]domain.ActivityEntry, error) {
	query := `
		SELECT id, type, entity_type, entity_id, actor_id, actor_name, description, metadata, timestamp
		FROM activities WHERE 1=1`
	var args []any

	if f.EntityType != "" {
		args = append(args, f.EntityType)
		query += fmt.Sprintf(` AND entity_type = $%d`, len(args))
	}
	if f.EntityID != "" {
		args = append(args, f.EntityID)
		query += fmt.Sprintf(` AND entity_id = $%d`, len(args))
	}
	if f.ActorID != "" {
		args = append(args, f.ActorID)
		query += fmt.Sprintf(` AND actor_id = $%d`, len(args))
	}
	query += ` ORDER BY timestamp DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.ActivityEntry
	for rows.Next() {
		var e domain.ActivityEntry
		var meta []byte
		if err := rows.Scan(
			&e.ID, &e.Type, &e.EntityType, &e.EntityID,
			&e.ActorID, &e.ActorName, &e.Description, &meta, &e.Timestamp,
		); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &e.Metadata)
		}
		results = append(results, e)
	}
	return results, rows.Err()
}
