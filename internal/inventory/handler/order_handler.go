package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/quayside/stockpilot/internal/inventory/entity"
	"github.com/quayside/stockpilot/internal/inventory/service"
)

type OrderHandler struct {
	svc *service.ProcurementService
}

func NewOrderHandler(svc *service.ProcurementService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// List GET /api/v1/purchase-orders?supplier_id=&status=&search=
func (h *OrderHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"supplier_id": c.Query("supplier_id"),
		"status":      c.Query("status"),
		"search":      c.Query("search"),
	}

	items, total, err := h.svc.ListOrders(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "failed to list purchase orders: "+err.Error())
		return
	}

	Success(c, NewListResponse(items, page, pageSize, total))
}

// Get GET /api/v1/purchase-orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.svc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "purchase order not found")
		return
	}
	Success(c, order)
}

// Create POST /api/v1/purchase-orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	order, err := h.svc.CreateOrder(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		FromError(c, err)
		return
	}
	Created(c, order)
}

type updateStatusRequest struct {
	Status entity.OrderStatus `json:"status" binding:"required"`
}

// UpdateStatus PUT /api/v1/purchase-orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	order, err := h.svc.UpdateStatus(c.Request.Context(), GetUserID(c), c.Param("id"), req.Status)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, order)
}

type receiveRequest struct {
	Items []service.ReceiveItem `json:"items"`
}

// Receive POST /api/v1/purchase-orders/:id/receive
func (h *OrderHandler) Receive(c *gin.Context) {
	var req receiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	order, err := h.svc.Receive(c.Request.Context(), GetUserID(c), c.Param("id"), req.Items)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, order)
}
