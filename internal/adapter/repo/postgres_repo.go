package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/gh-bundle-service/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresOrderStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresOrderStore(pool *pgxpool.Pool) *PostgresOrderStore {
	return &PostgresOrderStore{Pool: pool}
}

func (r *PostgresOrderStore) Save(ctx context.Context, o domain.Order) error {
	_, err := r.Pool.Exec(ctx, `
INSERT INTO orders(id, phone, bundle_code, price_quote, status, transaction_id, attempts, failure_reason, created_at, updated_at)
VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
  phone = EXCLUDED.phone,
  bundle_code = EXCLUDED.bundle_code,
  price_quote = EXCLUDED.price_quote,
  status = EXCLUDED.status,
  transaction_id = EXCLUDED.transaction_id,
  attempts = EXCLUDED.attempts,
  failure_reason = EXCLUDED.failure_reason,
  updated_at = EXCLUDED.updated_at`,
		o.ID, o.Phone, o.BundleCode, o.PriceQuote.String(), string(o.Status),
		o.TransactionID, o.Attempts, o.FailureReason, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r *PostgresOrderStore) GetAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.Pool.Query(ctx, `
SELECT id, phone, bundle_code, price_quote, status, transaction_id, attempts, failure_reason, created_at, updated_at
FROM orders ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		var status string
		if err := rows.Scan(&o.ID, &o.Phone, &o.BundleCode, &o.PriceQuote, &status,
			&o.TransactionID, &o.Attempts, &o.FailureReason, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Status = domain.Status(status)
		out = append(out, o)
	}
	return out, rows.Err()
}

// Update применяет частичный патч; запись заказа меняет только обработчик
// его события, поэтому построчной блокировки достаточно.
func (r *PostgresOrderStore) Update(ctx context.Context, id string, patch domain.OrderPatch) error {
	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC().Format(time.RFC3339)}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.TransactionID != nil {
		add("transaction_id", *patch.TransactionID)
	}
	if patch.Attempts != nil {
		add("attempts", *patch.Attempts)
	}
	if patch.FailureReason != nil {
		add("failure_reason", *patch.FailureReason)
	}

	args = append(args, id)
	q := fmt.Sprintf("UPDATE orders SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := r.Pool.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresOrderStore) Delete(ctx context.Context, id string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	return err
}

var _ domain.OrderStore = (*PostgresOrderStore)(nil)

// EnsureSchema — создать необходимые таблицы, если отсутствуют.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS orders (
  id text PRIMARY KEY,
  phone text NOT NULL,
  bundle_code text NOT NULL,
  price_quote numeric NOT NULL DEFAULT 0,
  status text NOT NULL,
  transaction_id text NOT NULL DEFAULT '',
  attempts int NOT NULL DEFAULT 0,
  failure_reason text NOT NULL DEFAULT '',
  created_at text NOT NULL DEFAULT '',
  updated_at text NOT NULL DEFAULT ''
);`)
	return err
}
