package model

import "fmt"

// OrderStatus describes the intake/dispatch lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusReviewed  OrderStatus = "reviewed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
)

var orderStatusText = map[OrderStatus]string{
	OrderStatusPending:   "待审核",
	OrderStatusReviewed:  "已审核",
	OrderStatusShipped:   "已发货",
	OrderStatusCompleted: "已完成",
}

// OrderStatuses lists valid statuses in workflow order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusReviewed, OrderStatusShipped, OrderStatusCompleted}
}

// Valid reports whether status is one of the four known values.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusText[s]
	return ok
}

// Text returns the customer facing label.
func (s OrderStatus) Text() string {
	if text, ok := orderStatusText[s]; ok {
		return text
	}
	return "未知"
}

// Item is a single line of a cherry order.
type Item struct {
	Variety string `json:"variety"`
	Size    string `json:"size"`
	Boxes   int    `json:"boxes"`
}

// Order describes a shipment request submitted by a customer.
type Order struct {
	ID               int64
	MallOrderNo      string
	RecipientName    string
	RecipientPhone   string
	RecipientAddress string
	Items            []Item
	Status           OrderStatus
	TrackingNumber   *string
	CreatedAt        int64
}

// DisplayID returns the order id padded to at least three digits.
func (o Order) DisplayID() string {
	return FormatDisplayID(o.ID)
}

// FormatDisplayID pads id with zeros to width 3 without truncating longer ids.
func FormatDisplayID(id int64) string {
	return fmt.Sprintf("%03d", id)
}

// PhoneSuffix returns the last four characters of the recipient phone or "" if shorter.
func (o Order) PhoneSuffix() string {
	return PhoneSuffix(o.RecipientPhone)
}

// PhoneSuffix returns the trailing four runes of phone, or "" when phone is
// shorter. Stored phones go through it; on-demand lookups use
// app.trimToLastFour, which passes short input through.
func PhoneSuffix(phone string) string {
	runes := []rune(phone)
	if len(runes) < 4 {
		return ""
	}
	return string(runes[len(runes)-4:])
}

// OrderDraft carries intake fields for a new order.
type OrderDraft struct {
	MallOrderNo      string
	RecipientName    string
	RecipientPhone   string
	RecipientAddress string
	Items            []Item
}

// OrderPatch carries optional field edits. Nil fields are left untouched;
// a non-nil Items replaces the whole sequence.
type OrderPatch struct {
	MallOrderNo      *string
	RecipientName    *string
	RecipientPhone   *string
	RecipientAddress *string
	Items            []Item
}

// Empty reports whether the patch changes nothing.
func (p OrderPatch) Empty() bool {
	return p.MallOrderNo == nil && p.RecipientName == nil && p.RecipientPhone == nil &&
		p.RecipientAddress == nil && p.Items == nil
}

// OrderFilter narrows the privileged order listing.
type OrderFilter struct {
	Status *OrderStatus
	Limit  int
	Offset int
}

// OrderPage is one page of the privileged listing.
type OrderPage struct {
	Orders []Order
	Page   int
	Limit  int
}
