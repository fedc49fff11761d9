package test

import (
	"context"
	"sort"
	"sync"

	domainErrors "github.com/polkiloo/cherrytrack/internal/domain/errors"
	"github.com/polkiloo/cherrytrack/internal/domain/model"
)

// OrderRepositoryStub stores orders in-memory for tests. Err, when set, is
// returned by every call; the Fn overrides take precedence over both.
type OrderRepositoryStub struct {
	Err             error
	ListShippedFn   func(context.Context) ([]model.Order, error)
	UpdateStatusFn  func(context.Context, int64, model.OrderStatus) error
	StatusUpdates   []OrderStatusCall
	LastFilter      model.OrderFilter
	LastSearchName  string
	LastSearchPhone string

	mu     sync.Mutex
	orders map[int64]*model.Order
	next   int64
}

// OrderStatusCall records an UpdateStatus invocation.
type OrderStatusCall struct {
	OrderID int64
	Status  model.OrderStatus
}

// NewOrderRepositoryStub constructs an empty in-memory repository.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{orders: make(map[int64]*model.Order), next: 1}
}

func (s *OrderRepositoryStub) init() {
	if s.orders == nil {
		s.orders = make(map[int64]*model.Order)
	}
	if s.next == 0 {
		s.next = 1
	}
}

// Put stores a copy of order as is, keeping its id.
func (s *OrderRepositoryStub) Put(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	stored := order
	s.orders[order.ID] = &stored
	if order.ID >= s.next {
		s.next = order.ID + 1
	}
}

// Order returns a copy of a stored order.
func (s *OrderRepositoryStub) Order(id int64) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, false
	}
	return *o, true
}

// Create assigns the next id and stores the draft as pending.
func (s *OrderRepositoryStub) Create(ctx context.Context, draft model.OrderDraft, createdAt int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()

	order := &model.Order{
		ID:               s.next,
		MallOrderNo:      draft.MallOrderNo,
		RecipientName:    draft.RecipientName,
		RecipientPhone:   draft.RecipientPhone,
		RecipientAddress: draft.RecipientAddress,
		Items:            append([]model.Item(nil), draft.Items...),
		Status:           model.OrderStatusPending,
		CreatedAt:        createdAt,
	}
	s.next++
	s.orders[order.ID] = order
	result := *order
	return &result, nil
}

// GetByID fetches order by identifier or returns not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	o, ok := s.Order(id)
	if !ok {
		return nil, domainErrors.NotFound("订单不存在")
	}
	return &o, nil
}

// Search returns exact name and phone matches, newest first.
func (s *OrderRepositoryStub) Search(ctx context.Context, name, phone string) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	s.LastSearchName, s.LastSearchPhone = name, phone
	s.mu.Unlock()
	return s.collect(func(o *model.Order) bool {
		return o.RecipientName == name && o.RecipientPhone == phone
	}), nil
}

// List pages through orders newest first.
func (s *OrderRepositoryStub) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	s.LastFilter = filter
	s.mu.Unlock()

	all := s.collect(func(o *model.Order) bool {
		return filter.Status == nil || o.Status == *filter.Status
	})
	if filter.Offset >= len(all) {
		return nil, nil
	}
	end := len(all)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return all[filter.Offset:end], nil
}

// UpdateFields applies non-nil patch fields.
func (s *OrderRepositoryStub) UpdateFields(ctx context.Context, id int64, patch model.OrderPatch) error {
	return s.mutate(id, func(o *model.Order) {
		if patch.MallOrderNo != nil {
			o.MallOrderNo = *patch.MallOrderNo
		}
		if patch.RecipientName != nil {
			o.RecipientName = *patch.RecipientName
		}
		if patch.RecipientPhone != nil {
			o.RecipientPhone = *patch.RecipientPhone
		}
		if patch.RecipientAddress != nil {
			o.RecipientAddress = *patch.RecipientAddress
		}
		if patch.Items != nil {
			o.Items = append([]model.Item(nil), patch.Items...)
		}
	})
}

// UpdateStatus records the call and overwrites the status.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status)
	}
	s.mu.Lock()
	s.StatusUpdates = append(s.StatusUpdates, OrderStatusCall{OrderID: id, Status: status})
	s.mu.Unlock()
	return s.mutate(id, func(o *model.Order) { o.Status = status })
}

// UpdateTracking overwrites the tracking number.
func (s *OrderRepositoryStub) UpdateTracking(ctx context.Context, id int64, trackingNumber *string) error {
	return s.mutate(id, func(o *model.Order) {
		if trackingNumber == nil {
			o.TrackingNumber = nil
			return
		}
		value := *trackingNumber
		o.TrackingNumber = &value
	})
}

// ListShippedWithTracking returns shipped orders with a tracking number by id.
func (s *OrderRepositoryStub) ListShippedWithTracking(ctx context.Context) ([]model.Order, error) {
	if s.ListShippedFn != nil {
		return s.ListShippedFn(ctx)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	orders := s.collect(func(o *model.Order) bool {
		return o.Status == model.OrderStatusShipped && o.TrackingNumber != nil
	})
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (s *OrderRepositoryStub) mutate(id int64, fn func(*model.Order)) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return domainErrors.NotFound("订单不存在")
	}
	fn(o)
	return nil
}

func (s *OrderRepositoryStub) collect(match func(*model.Order) bool) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.orders {
		if match(o) {
			result = append(result, *o)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].ID > result[j].ID
	})
	return result
}
