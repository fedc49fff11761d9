package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/cherrytrack/internal/domain/errors"
	"github.com/polkiloo/cherrytrack/internal/domain/model"
	"github.com/polkiloo/cherrytrack/internal/domain/repository"
)

// pgxPool is the subset of *pgxpool.Pool the storage relies on.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return domainErrors.Persistence("ping database", err)
	}
	return nil
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            mall_order_no TEXT NOT NULL,
            recipient_name TEXT NOT NULL,
            recipient_phone TEXT NOT NULL,
            recipient_address TEXT NOT NULL,
            items JSONB NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending'
                CHECK (status IN ('pending', 'reviewed', 'shipped', 'completed')),
            tracking_number TEXT,
            created_at BIGINT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_recipient ON orders(recipient_name, recipient_phone, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_shipped_tracking ON orders(id)
            WHERE status = 'shipped' AND tracking_number IS NOT NULL`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, mall_order_no, recipient_name, recipient_phone, recipient_address, items, status, tracking_number, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (model.Order, error) {
	var (
		o     model.Order
		items []byte
	)
	if err := row.Scan(&o.ID, &o.MallOrderNo, &o.RecipientName, &o.RecipientPhone, &o.RecipientAddress,
		&items, &o.Status, &o.TrackingNumber, &o.CreatedAt); err != nil {
		return model.Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return model.Order{}, fmt.Errorf("decode items of order %d: %w", o.ID, err)
	}
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, draft model.OrderDraft, createdAt int64) (*model.Order, error) {
	items, err := json.Marshal(draft.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}

	const query = `INSERT INTO orders (mall_order_no, recipient_name, recipient_phone, recipient_address, items, status, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING id`
	order := model.Order{
		MallOrderNo:      draft.MallOrderNo,
		RecipientName:    draft.RecipientName,
		RecipientPhone:   draft.RecipientPhone,
		RecipientAddress: draft.RecipientAddress,
		Items:            draft.Items,
		Status:           model.OrderStatusPending,
		CreatedAt:        createdAt,
	}
	err = r.storage.pool.QueryRow(ctx, query, draft.MallOrderNo, draft.RecipientName, draft.RecipientPhone,
		draft.RecipientAddress, items, model.OrderStatusPending, createdAt).Scan(&order.ID)
	if err != nil {
		return nil, domainErrors.Persistence("insert order", err)
	}
	return &order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.NotFound("订单不存在")
		}
		return nil, domainErrors.Persistence("get order", err)
	}
	return &order, nil
}

func (r *orderRepository) Search(ctx context.Context, name, phone string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE recipient_name=$1 AND recipient_phone=$2
              ORDER BY created_at DESC, id DESC`
	rows, err := r.storage.pool.Query(ctx, query, name, phone)
	if err != nil {
		return nil, domainErrors.Persistence("search orders", err)
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, domainErrors.Persistence("search orders", err)
	}
	return orders, nil
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if filter.Status != nil {
		query := `SELECT ` + orderColumns + ` FROM orders WHERE status=$1
                  ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
		rows, err = r.storage.pool.Query(ctx, query, *filter.Status, filter.Limit, filter.Offset)
	} else {
		query := `SELECT ` + orderColumns + ` FROM orders
                  ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
		rows, err = r.storage.pool.Query(ctx, query, filter.Limit, filter.Offset)
	}
	if err != nil {
		return nil, domainErrors.Persistence("list orders", err)
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, domainErrors.Persistence("list orders", err)
	}
	return orders, nil
}

func (r *orderRepository) UpdateFields(ctx context.Context, id int64, patch model.OrderPatch) error {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	if patch.MallOrderNo != nil {
		add("mall_order_no", *patch.MallOrderNo)
	}
	if patch.RecipientName != nil {
		add("recipient_name", *patch.RecipientName)
	}
	if patch.RecipientPhone != nil {
		add("recipient_phone", *patch.RecipientPhone)
	}
	if patch.RecipientAddress != nil {
		add("recipient_address", *patch.RecipientAddress)
	}
	if patch.Items != nil {
		items, err := json.Marshal(patch.Items)
		if err != nil {
			return fmt.Errorf("encode items: %w", err)
		}
		add("items", items)
	}
	if len(sets) == 0 {
		return domainErrors.Validation("没有提供需要更新的字段")
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE orders SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))
	return r.execSingle(ctx, "update order", query, args...)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	const query = `UPDATE orders SET status=$1 WHERE id=$2`
	return r.execSingle(ctx, "update order status", query, status, id)
}

func (r *orderRepository) UpdateTracking(ctx context.Context, id int64, trackingNumber *string) error {
	const query = `UPDATE orders SET tracking_number=$1 WHERE id=$2`
	return r.execSingle(ctx, "update tracking number", query, trackingNumber, id)
}

func (r *orderRepository) ListShippedWithTracking(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE status='shipped' AND tracking_number IS NOT NULL
              ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, domainErrors.Persistence("list shipped orders", err)
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, domainErrors.Persistence("list shipped orders", err)
	}
	return orders, nil
}

func (r *orderRepository) execSingle(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		return domainErrors.Persistence(op, err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.NotFound("订单不存在")
	}
	return nil
}
