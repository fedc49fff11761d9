package repository

import (
	"context"

	"github.com/polkiloo/cherrytrack/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, draft model.OrderDraft, createdAt int64) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	Search(ctx context.Context, name, phone string) ([]model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	UpdateFields(ctx context.Context, id int64, patch model.OrderPatch) error
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error
	UpdateTracking(ctx context.Context, id int64, trackingNumber *string) error
	ListShippedWithTracking(ctx context.Context) ([]model.Order, error)
}
