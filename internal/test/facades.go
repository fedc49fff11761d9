package test

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/cherrytrack/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn       func(context.Context, model.OrderDraft) (*model.Order, error)
	GetFn          func(context.Context, int64) (*model.Order, error)
	SearchFn       func(context.Context, string, string) ([]model.Order, error)
	ListFn         func(context.Context, string, int) (*model.OrderPage, error)
	UpdateFn       func(context.Context, int64, model.OrderPatch) error
	UpdateStatusFn func(context.Context, int64, string) error
	TrackingFn     func(context.Context, int64, *string) error
}

// CreateOrder delegates to provided function or returns order 1.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, draft)
	}
	return &model.Order{ID: 1, MallOrderNo: draft.MallOrderNo, Status: model.OrderStatusPending}, nil
}

// Order returns a pending order with the requested id.
func (s OrderFacadeStub) Order(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusPending, Items: []model.Item{}}, nil
}

// SearchOrders returns a single matching order by default.
func (s OrderFacadeStub) SearchOrders(ctx context.Context, name, phone string) ([]model.Order, error) {
	if s.SearchFn != nil {
		return s.SearchFn(ctx, name, phone)
	}
	return []model.Order{{ID: 1, RecipientName: name, RecipientPhone: phone, Status: model.OrderStatusPending}}, nil
}

// ListOrders returns an empty first page by default.
func (s OrderFacadeStub) ListOrders(ctx context.Context, status string, page int) (*model.OrderPage, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, status, page)
	}
	return &model.OrderPage{Orders: []model.Order{}, Page: page, Limit: 50}, nil
}

// UpdateOrder executes configured handler.
func (s OrderFacadeStub) UpdateOrder(ctx context.Context, id int64, patch model.OrderPatch) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, patch)
	}
	return nil
}

// UpdateOrderStatus executes configured handler.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status)
	}
	return nil
}

// UpdateTrackingNumber executes configured handler.
func (s OrderFacadeStub) UpdateTrackingNumber(ctx context.Context, id int64, trackingNumber *string) error {
	if s.TrackingFn != nil {
		return s.TrackingFn(ctx, id, trackingNumber)
	}
	return nil
}

// LogisticsFacadeStub simulates tracking, reconciliation and health checks.
type LogisticsFacadeStub struct {
	TrackFn  func(context.Context, string, string) (*model.TrackingResult, error)
	CheckFn  func(context.Context) (*model.ReconcileSummary, error)
	HealthFn func(context.Context) error
}

// Track returns an in-transit result by default.
func (s LogisticsFacadeStub) Track(ctx context.Context, trackingNumber, phone string) (*model.TrackingResult, error) {
	if s.TrackFn != nil {
		return s.TrackFn(ctx, trackingNumber, phone)
	}
	return &model.TrackingResult{
		Success:        true,
		TrackingNumber: trackingNumber,
		State:          model.TrackingStateInTransit,
		StateText:      model.TrackingStateInTransit.Text(),
		Events:         []model.TrackingEvent{},
	}, nil
}

// CheckDeliveryStatus returns an empty summary by default.
func (s LogisticsFacadeStub) CheckDeliveryStatus(ctx context.Context) (*model.ReconcileSummary, error) {
	if s.CheckFn != nil {
		return s.CheckFn(ctx)
	}
	return &model.ReconcileSummary{Failures: []model.ReconcileFailure{}, Timestamp: time.Unix(0, 0).UTC()}, nil
}

// HealthCheck reports healthy by default.
func (s LogisticsFacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

// CherryFacadeStub aggregates facade dependencies for HTTP layer tests.
type CherryFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	LogisticsFacadeStub
}

// TrackingCall stores information about tracker invocations.
type TrackingCall struct {
	TrackingNumber string
	PhoneSuffix    string
}

// TrackerStub answers tracking queries from a per-number table.
type TrackerStub struct {
	QueryFn func(context.Context, string, string) (*model.TrackingResult, error)
	Results map[string]*model.TrackingResult
	Errors  map[string]error
	Calls   []TrackingCall

	mu sync.Mutex
}

// SetResult replaces the answer for a tracking number.
func (s *TrackerStub) SetResult(trackingNumber string, result *model.TrackingResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Results == nil {
		s.Results = make(map[string]*model.TrackingResult)
	}
	s.Results[trackingNumber] = result
}

// StateResult builds a successful result in the given state.
func StateResult(trackingNumber string, state model.TrackingState) *model.TrackingResult {
	return &model.TrackingResult{
		Success:        true,
		TrackingNumber: trackingNumber,
		State:          state,
		StateText:      state.Text(),
		Events:         []model.TrackingEvent{},
	}
}

// Query records the call and returns the configured answer.
func (s *TrackerStub) Query(ctx context.Context, trackingNumber, phoneSuffix string) (*model.TrackingResult, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, TrackingCall{TrackingNumber: trackingNumber, PhoneSuffix: phoneSuffix})
	result, hasResult := s.Results[trackingNumber]
	err := s.Errors[trackingNumber]
	s.mu.Unlock()

	if s.QueryFn != nil {
		return s.QueryFn(ctx, trackingNumber, phoneSuffix)
	}
	if err != nil {
		return nil, err
	}
	if hasResult {
		return result, nil
	}
	return StateResult(trackingNumber, model.TrackingStateInTransit), nil
}

// PacerStub counts waits without sleeping.
type PacerStub struct {
	Err   error
	Waits int

	mu sync.Mutex
}

// Wait records the call.
func (p *PacerStub) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Waits++
	return p.Err
}

// RunnerStub counts reconciliation runs.
type RunnerStub struct {
	RunFn func(context.Context) (*model.ReconcileSummary, error)
	Runs  chan struct{}
}

// Run notifies Runs and returns the configured summary.
func (r *RunnerStub) Run(ctx context.Context) (*model.ReconcileSummary, error) {
	if r.Runs != nil {
		select {
		case r.Runs <- struct{}{}:
		default:
		}
	}
	if r.RunFn != nil {
		return r.RunFn(ctx)
	}
	return &model.ReconcileSummary{Failures: []model.ReconcileFailure{}}, nil
}
