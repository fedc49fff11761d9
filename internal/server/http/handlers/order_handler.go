package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/cherrytrack/internal/server/http/dto"
)

const (
	msgOrderCreated    = "订单提交成功"
	msgOrderUpdated    = "订单更新成功"
	msgStatusUpdated   = "状态更新成功"
	msgTrackingUpdated = "快递单号更新成功"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, msgBadBody)
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), req.Draft())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateOrderResponse{
		Success: true,
		OrderID: order.DisplayID(),
		Message: msgOrderCreated,
	})
}

// Search handles GET /api/orders/search.
func (h *OrderHandler) Search(c *gin.Context) {
	orders, err := h.facade.SearchOrders(c.Request.Context(), c.Query("name"), c.Query("phone"))
	if err != nil {
		writeError(c, err)
		return
	}

	response := dto.SearchResponse{Orders: make([]dto.OrderSummary, 0, len(orders))}
	for _, o := range orders {
		response.Orders = append(response.Orders, dto.NewOrderSummary(o))
	}
	c.JSON(http.StatusOK, response)
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}

	result, err := h.facade.ListOrders(c.Request.Context(), c.Query("status"), page)
	if err != nil {
		writeError(c, err)
		return
	}

	response := dto.OrderListResponse{
		Orders: make([]dto.OrderResponse, 0, len(result.Orders)),
		Page:   result.Page,
		Limit:  result.Limit,
	}
	for _, o := range result.Orders {
		response.Orders = append(response.Orders, dto.NewOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order))
}

// Update handles PUT /api/orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, msgBadBody)
		return
	}

	if err := h.facade.UpdateOrder(c.Request.Context(), id, req.Patch()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: msgOrderUpdated})
}

// UpdateStatus handles PUT /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	if err := h.facade.UpdateOrderStatus(c.Request.Context(), id, c.Query("status")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: msgStatusUpdated})
}

// UpdateTracking handles PUT /api/orders/:id/tracking.
func (h *OrderHandler) UpdateTracking(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req dto.UpdateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, msgBadBody)
		return
	}

	if err := h.facade.UpdateTrackingNumber(c.Request.Context(), id, req.TrackingNumber); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: msgTrackingUpdated})
}
