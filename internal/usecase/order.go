package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/cherrytrack/internal/domain/errors"
	"github.com/polkiloo/cherrytrack/internal/domain/model"
	"github.com/polkiloo/cherrytrack/internal/domain/repository"
)

// PageSize is the fixed size of the privileged order listing.
const PageSize = 50

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders repository.OrderRepository
	now    func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders, now: time.Now}
}

// Create validates the draft and stores it as a pending order.
func (u *OrderUseCase) Create(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	if err := NormalizeDraft(&draft); err != nil {
		return nil, err
	}
	return u.orders.Create(ctx, draft, u.now().Unix())
}

// Get returns a single order.
func (u *OrderUseCase) Get(ctx context.Context, id int64) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// Search returns orders matching name and phone exactly, newest first.
// An empty result is reported as NotFound.
func (u *OrderUseCase) Search(ctx context.Context, name, phone string) ([]model.Order, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return nil, domainErrors.Validation(msgSearchRequired)
	}

	orders, err := u.orders.Search(ctx, name, phone)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domainErrors.NotFound(msgNoOrdersFound)
	}
	return orders, nil
}

// List returns one page of orders, optionally filtered by status.
// Pages below 1 are treated as the first page; pages whose offset does not
// fit in an int are empty.
func (u *OrderUseCase) List(ctx context.Context, status string, page int) (*model.OrderPage, error) {
	if page < 1 {
		page = 1
	}

	filter := model.OrderFilter{Limit: PageSize}
	if strings.TrimSpace(status) != "" {
		parsed, err := ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = &parsed
	}

	if page-1 > math.MaxInt/PageSize {
		return &model.OrderPage{Orders: []model.Order{}, Page: page, Limit: PageSize}, nil
	}
	filter.Offset = (page - 1) * PageSize

	orders, err := u.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return &model.OrderPage{Orders: orders, Page: page, Limit: PageSize}, nil
}

// UpdateFields applies a partial edit.
func (u *OrderUseCase) UpdateFields(ctx context.Context, id int64, patch model.OrderPatch) error {
	if err := NormalizePatch(&patch); err != nil {
		return err
	}
	return u.orders.UpdateFields(ctx, id, patch)
}

// UpdateStatus overwrites the order status. A known status always applies to
// an existing order; a missing id reports NotFound.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, id int64, raw string) error {
	status := model.OrderStatus(strings.TrimSpace(raw))
	if err := checkStatusTransition(status); err != nil {
		return err
	}
	return u.orders.UpdateStatus(ctx, id, status)
}

// UpdateTracking sets or clears the tracking number.
func (u *OrderUseCase) UpdateTracking(ctx context.Context, id int64, trackingNumber *string) error {
	return u.orders.UpdateTracking(ctx, id, NormalizeTrackingNumber(trackingNumber))
}

// ShippedWithTracking returns orders awaiting delivery confirmation.
func (u *OrderUseCase) ShippedWithTracking(ctx context.Context) ([]model.Order, error) {
	return u.orders.ListShippedWithTracking(ctx)
}

// Complete marks an order as delivered. Repeating it is a no-op.
func (u *OrderUseCase) Complete(ctx context.Context, id int64) error {
	return u.orders.UpdateStatus(ctx, id, model.OrderStatusCompleted)
}
