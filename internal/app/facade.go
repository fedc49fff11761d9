package app

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/cherrytrack/internal/domain/errors"
	"github.com/polkiloo/cherrytrack/internal/domain/model"
	"github.com/polkiloo/cherrytrack/internal/usecase"
	"github.com/polkiloo/cherrytrack/internal/worker"
)

// TrackingProvider queries the courier tracking service.
type TrackingProvider interface {
	Query(ctx context.Context, trackingNumber, phoneSuffix string) (*model.TrackingResult, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CherryFacade is the single entry point used by HTTP handlers.
type CherryFacade struct {
	auth       *usecase.AuthUseCase
	orders     *usecase.OrderUseCase
	tracking   TrackingProvider
	reconciler *worker.Reconciler
	health     HealthChecker
}

func NewCherryFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, tracking TrackingProvider, reconciler *worker.Reconciler, health HealthChecker) *CherryFacade {
	return &CherryFacade{auth: auth, orders: orders, tracking: tracking, reconciler: reconciler, health: health}
}

func (f *CherryFacade) Authenticate(ctx context.Context, passcode, role string) (model.Role, string, error) {
	return f.auth.Authenticate(ctx, passcode, role)
}

func (f *CherryFacade) ParseToken(token string) (model.Role, error) {
	return f.auth.ParseToken(token)
}

func (f *CherryFacade) CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	return f.orders.Create(ctx, draft)
}

func (f *CherryFacade) Order(ctx context.Context, id int64) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *CherryFacade) SearchOrders(ctx context.Context, name, phone string) ([]model.Order, error) {
	return f.orders.Search(ctx, name, phone)
}

func (f *CherryFacade) ListOrders(ctx context.Context, status string, page int) (*model.OrderPage, error) {
	return f.orders.List(ctx, status, page)
}

func (f *CherryFacade) UpdateOrder(ctx context.Context, id int64, patch model.OrderPatch) error {
	return f.orders.UpdateFields(ctx, id, patch)
}

func (f *CherryFacade) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	return f.orders.UpdateStatus(ctx, id, status)
}

func (f *CherryFacade) UpdateTrackingNumber(ctx context.Context, id int64, trackingNumber *string) error {
	return f.orders.UpdateTracking(ctx, id, trackingNumber)
}

// Track queries the provider on demand. phone may be a full number; only its
// last four characters are sent.
func (f *CherryFacade) Track(ctx context.Context, trackingNumber, phone string) (*model.TrackingResult, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, domainErrors.Validation("请提供快递单号")
	}
	return f.tracking.Query(ctx, trackingNumber, trimToLastFour(phone))
}

// CheckDeliveryStatus runs reconciliation to completion even if the caller goes away.
func (f *CherryFacade) CheckDeliveryStatus(ctx context.Context) (*model.ReconcileSummary, error) {
	return f.reconciler.Run(context.WithoutCancel(ctx))
}

func (f *CherryFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

// trimToLastFour trims phone and keeps its last four runes. Unlike
// model.PhoneSuffix, shorter input is passed through unchanged.
func trimToLastFour(phone string) string {
	runes := []rune(strings.TrimSpace(phone))
	if len(runes) > 4 {
		runes = runes[len(runes)-4:]
	}
	return string(runes)
}
