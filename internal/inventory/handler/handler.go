package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quayside/stockpilot/internal/inventory/repository"
	"github.com/quayside/stockpilot/internal/inventory/service"
	"github.com/quayside/stockpilot/internal/middleware"
	"github.com/quayside/stockpilot/internal/sse"
	"go.uber.org/zap"
)

// deleteRole gates destructive endpoints; admins always pass.
const deleteRole = "manager"

// Handlers is the inventory handler collection.
type Handlers struct {
	Product      *ProductHandler
	Category     *CategoryHandler
	Supplier     *SupplierHandler
	Customer     *CustomerHandler
	Order        *OrderHandler
	Notification *NotificationHandler
	Dashboard    *DashboardHandler
	Events       *SSEHandler
}

func NewHandlers(svcs *service.Services, hub *sse.Hub, logger *zap.Logger) *Handlers {
	return &Handlers{
		Product:      NewProductHandler(svcs.Product),
		Category:     NewCategoryHandler(svcs.Category),
		Supplier:     NewSupplierHandler(svcs.Supplier),
		Customer:     NewCustomerHandler(svcs.Customer),
		Order:        NewOrderHandler(svcs.Procurement),
		Notification: NewNotificationHandler(svcs.Notification),
		Dashboard:    NewDashboardHandler(svcs.Dashboard, svcs.Report),
		Events:       NewSSEHandler(hub, logger),
	}
}

// RegisterRoutes mounts every API route on the authenticated group.
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup) {
	products := api.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/:id", h.Product.Get)
		products.GET("/:id/history", h.Product.History)
		products.POST("", h.Product.Create)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", middleware.RequireRole(deleteRole), h.Product.Delete)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.POST("", h.Category.Create)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", middleware.RequireRole(deleteRole), h.Category.Delete)
	}

	suppliers := api.Group("/suppliers")
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.POST("", h.Supplier.Create)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", middleware.RequireRole(deleteRole), h.Supplier.Delete)
	}

	customers := api.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.POST("", h.Customer.Create)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", middleware.RequireRole(deleteRole), h.Customer.Delete)
	}

	orders := api.Group("/purchase-orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
		orders.POST("", h.Order.Create)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
		orders.POST("/:id/receive", h.Order.Receive)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/unread-count", h.Notification.UnreadCount)
		notifications.PUT("/:id/read", h.Notification.MarkRead)
		notifications.PUT("/read-all", h.Notification.MarkAllRead)
	}

	api.GET("/dashboard/stats", h.Dashboard.Stats)
	api.GET("/reports/inventory", h.Dashboard.ExportInventory)
	api.GET("/reports/purchase-orders", h.Dashboard.ExportOrders)

	api.GET("/events", h.Events.Stream)
}

// === response helpers ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewListResponse(items interface{}, page, pageSize int, total int64) ListResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	}
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// FromError maps a service error onto the response envelope: missing rows
// become 404, everything else a 400 with the wrapped message.
func FromError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c, err.Error())
		return
	}
	BadRequest(c, err.Error())
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
