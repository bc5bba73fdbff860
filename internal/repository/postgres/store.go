package postgres

/*
Слой персистентности CRM. Ресурсы хранятся как JSONB-документы
(таблицы вида: id, doc, created_at, updated_at) — вызывающие стороны
работают с документной моделью, а не с реляционной схемой. Учетные
записи пользователей лежат в обычной колоночной таблице users:
по ним идут точечные выборки аутентификации.

Ссылки на пользователей (assignedTo, createdBy и т.д.) сохраняются
в «голой» форме (строка-id), а при одиночном чтении репозиторий
разворачивает их в объект с данными пользователя. Потребители обязаны
принимать обе формы — этим занимается domain.Ref.
*/

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xela07ax/teamcrm/internal/domain"
	"github.com/xela07ax/teamcrm/internal/infra"
)

type Store struct {
	pool *pgxpool.Pool
}

// NewStore создает пул соединений с PostgreSQL.
func NewStore(ctx context.Context, cfg infra.DatabaseConfig) (*Store, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid connection string: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("postgres: pool init failed: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Ping проверяет доступность базы при старте
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

// populateRef разворачивает «голую» ссылку в объект с данными
// пользователя. Отсутствующая или уже развернутая ссылка не трогается;
// неизвестный id оставляет ссылку голой (а не роняет чтение).
func (s *Store) populateRef(ctx context.Context, ref *domain.Ref) {
	if ref == nil || ref.IsZero() || ref.User != nil {
		return
	}

	query := `SELECT id, first_name, last_name, email FROM users WHERE id = $1`

	var u domain.UserSummary
	err := s.pool.QueryRow(ctx, query, ref.ID).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email)
	if err != nil {
		return
	}
	ref.User = &u
}
