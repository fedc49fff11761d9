package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/cherrytrack/internal/domain/model"
)

// ShipmentStore exposes the order operations the reconciler needs.
type ShipmentStore interface {
	ShippedWithTracking(ctx context.Context) ([]model.Order, error)
	Complete(ctx context.Context, id int64) error
}

// Tracker queries the courier provider for one shipment.
type Tracker interface {
	Query(ctx context.Context, trackingNumber, phoneSuffix string) (*model.TrackingResult, error)
}

var errNoTrackingNumber = errors.New("order has no tracking number")

// Reconciler promotes shipped orders to completed once the carrier reports delivery.
type Reconciler struct {
	orders  ShipmentStore
	tracker Tracker
	pacer   Pacer
	logger  *slog.Logger
	now     func() time.Time

	mu sync.Mutex
}

// NewReconciler constructs Reconciler.
func NewReconciler(orders ShipmentStore, tracker Tracker, pacer Pacer, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		orders:  orders,
		tracker: tracker,
		pacer:   pacer,
		logger:  logger.With("component", "delivery_reconciler"),
		now:     time.Now,
	}
}

// Run checks every shipped order once, sequentially. Only a failure to list
// shipped orders or a cancelled ctx aborts the run; per-order failures are
// recorded in the summary. Concurrent calls are serialized.
func (r *Reconciler) Run(ctx context.Context) (*model.ReconcileSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.orders.ShippedWithTracking(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "list shipped orders failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("list shipped orders: %w", err)
	}

	summary := &model.ReconcileSummary{Failures: []model.ReconcileFailure{}}
	for _, order := range orders {
		if err := r.pacer.Wait(ctx); err != nil {
			summary.Timestamp = r.now().UTC()
			r.logger.WarnContext(ctx, "reconciliation interrupted",
				slog.Int("checked", summary.Checked), slog.String("error", err.Error()))
			return summary, err
		}

		summary.Checked++
		delivered, err := r.reconcileOrder(ctx, order)
		if err != nil {
			summary.Errors++
			summary.Failures = append(summary.Failures, model.ReconcileFailure{OrderID: order.ID, Error: err.Error()})
			r.logger.WarnContext(ctx, "order reconciliation failed",
				slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
			continue
		}
		if delivered {
			summary.Updated++
			r.logger.InfoContext(ctx, "order delivered", slog.Int64("order_id", order.ID))
		}
	}

	summary.Timestamp = r.now().UTC()
	r.logger.InfoContext(ctx, "reconciliation finished",
		slog.Int("checked", summary.Checked),
		slog.Int("updated", summary.Updated),
		slog.Int("errors", summary.Errors),
	)
	return summary, nil
}

func (r *Reconciler) reconcileOrder(ctx context.Context, order model.Order) (bool, error) {
	if order.TrackingNumber == nil || *order.TrackingNumber == "" {
		return false, errNoTrackingNumber
	}

	result, err := r.tracker.Query(ctx, *order.TrackingNumber, order.PhoneSuffix())
	if err != nil {
		return false, err
	}
	if !result.Success {
		if result.Error != "" {
			return false, errors.New(result.Error)
		}
		return false, errors.New("tracking query returned no data")
	}
	if !result.Delivered() {
		return false, nil
	}

	if err := r.orders.Complete(ctx, order.ID); err != nil {
		return false, err
	}
	return true, nil
}
