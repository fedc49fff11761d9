package handlers

import (
	"context"

	"github.com/polkiloo/cherrytrack/internal/domain/model"
)

// AuthFacade describes staff authentication used by handlers and middleware.
type AuthFacade interface {
	Authenticate(ctx context.Context, passcode, role string) (model.Role, string, error)
	ParseToken(token string) (model.Role, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error)
	Order(ctx context.Context, id int64) (*model.Order, error)
	SearchOrders(ctx context.Context, name, phone string) ([]model.Order, error)
	ListOrders(ctx context.Context, status string, page int) (*model.OrderPage, error)
	UpdateOrder(ctx context.Context, id int64, patch model.OrderPatch) error
	UpdateOrderStatus(ctx context.Context, id int64, status string) error
	UpdateTrackingNumber(ctx context.Context, id int64, trackingNumber *string) error
}

// LogisticsFacade provides courier tracking and delivery reconciliation.
type LogisticsFacade interface {
	Track(ctx context.Context, trackingNumber, phone string) (*model.TrackingResult, error)
	CheckDeliveryStatus(ctx context.Context) (*model.ReconcileSummary, error)
	HealthCheck(ctx context.Context) error
}

// CherryFacade aggregates the full set of operations used across handlers.
type CherryFacade interface {
	AuthFacade
	OrderFacade
	LogisticsFacade
}
