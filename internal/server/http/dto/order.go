package dto

import "github.com/polkiloo/cherrytrack/internal/domain/model"

// Item is one line of an order in requests and responses.
type Item struct {
	Variety string `json:"variety"`
	Size    string `json:"size"`
	Boxes   int    `json:"boxes"`
}

// CreateOrderRequest is the intake payload.
type CreateOrderRequest struct {
	MallOrderNo      string `json:"mall_order_no"`
	RecipientName    string `json:"recipient_name"`
	RecipientPhone   string `json:"recipient_phone"`
	RecipientAddress string `json:"recipient_address"`
	Items            []Item `json:"items"`
}

// UpdateOrderRequest holds the fields to change; absent fields stay nil.
type UpdateOrderRequest struct {
	MallOrderNo      *string `json:"mall_order_no"`
	RecipientName    *string `json:"recipient_name"`
	RecipientPhone   *string `json:"recipient_phone"`
	RecipientAddress *string `json:"recipient_address"`
	Items            []Item  `json:"items"`
}

// UpdateTrackingRequest sets or clears the tracking number.
type UpdateTrackingRequest struct {
	TrackingNumber *string `json:"tracking_number"`
}

// CreateOrderResponse confirms intake.
type CreateOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id"`
	Message string `json:"message"`
}

// MessageResponse is the generic success body of update endpoints.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OrderSummary is the customer facing projection returned by search.
type OrderSummary struct {
	OrderID        string  `json:"order_id"`
	MallOrderNo    string  `json:"mall_order_no"`
	RecipientPhone string  `json:"recipient_phone"`
	Status         string  `json:"status"`
	StatusText     string  `json:"status_text"`
	TrackingNumber *string `json:"tracking_number"`
	CreatedAt      int64   `json:"created_at"`
}

// SearchResponse wraps search matches.
type SearchResponse struct {
	Orders []OrderSummary `json:"orders"`
}

// OrderResponse is the full staff facing record.
type OrderResponse struct {
	ID               int64   `json:"id"`
	OrderID          string  `json:"order_id"`
	MallOrderNo      string  `json:"mall_order_no"`
	RecipientName    string  `json:"recipient_name"`
	RecipientPhone   string  `json:"recipient_phone"`
	RecipientAddress string  `json:"recipient_address"`
	Items            []Item  `json:"items"`
	Status           string  `json:"status"`
	StatusText       string  `json:"status_text"`
	TrackingNumber   *string `json:"tracking_number"`
	CreatedAt        int64   `json:"created_at"`
}

// OrderListResponse is one page of the staff listing.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// Draft converts the request into a domain draft.
func (r CreateOrderRequest) Draft() model.OrderDraft {
	return model.OrderDraft{
		MallOrderNo:      r.MallOrderNo,
		RecipientName:    r.RecipientName,
		RecipientPhone:   r.RecipientPhone,
		RecipientAddress: r.RecipientAddress,
		Items:            toModelItems(r.Items),
	}
}

// Patch converts the request into a domain patch.
func (r UpdateOrderRequest) Patch() model.OrderPatch {
	return model.OrderPatch{
		MallOrderNo:      r.MallOrderNo,
		RecipientName:    r.RecipientName,
		RecipientPhone:   r.RecipientPhone,
		RecipientAddress: r.RecipientAddress,
		Items:            toModelItems(r.Items),
	}
}

func toModelItems(items []Item) []model.Item {
	if items == nil {
		return nil
	}
	result := make([]model.Item, 0, len(items))
	for _, it := range items {
		result = append(result, model.Item{Variety: it.Variety, Size: it.Size, Boxes: it.Boxes})
	}
	return result
}

// NewOrderSummary builds the search projection of an order.
func NewOrderSummary(o model.Order) OrderSummary {
	return OrderSummary{
		OrderID:        o.DisplayID(),
		MallOrderNo:    o.MallOrderNo,
		RecipientPhone: o.RecipientPhone,
		Status:         string(o.Status),
		StatusText:     o.Status.Text(),
		TrackingNumber: o.TrackingNumber,
		CreatedAt:      o.CreatedAt,
	}
}

// NewOrderResponse builds the full record of an order.
func NewOrderResponse(o model.Order) OrderResponse {
	items := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, Item{Variety: it.Variety, Size: it.Size, Boxes: it.Boxes})
	}
	return OrderResponse{
		ID:               o.ID,
		OrderID:          o.DisplayID(),
		MallOrderNo:      o.MallOrderNo,
		RecipientName:    o.RecipientName,
		RecipientPhone:   o.RecipientPhone,
		RecipientAddress: o.RecipientAddress,
		Items:            items,
		Status:           string(o.Status),
		StatusText:       o.Status.Text(),
		TrackingNumber:   o.TrackingNumber,
		CreatedAt:        o.CreatedAt,
	}
}
