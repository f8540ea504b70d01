package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/quayside/stockpilot/internal/inventory/service"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.List(c.Request.Context(), GetUserID(c), page, pageSize)
	if err != nil {
		InternalError(c, "failed to list notifications: "+err.Error())
		return
	}
	Success(c, NewListResponse(items, page, pageSize, total))
}

// UnreadCount GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.svc.UnreadCount(c.Request.Context(), GetUserID(c))
	if err != nil {
		InternalError(c, "failed to count notifications: "+err.Error())
		return
	}
	Success(c, gin.H{"count": count})
}

// MarkRead PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		FromError(c, err)
		return
	}
	Success(c, nil)
}

// MarkAllRead PUT /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.svc.MarkAllRead(c.Request.Context(), GetUserID(c)); err != nil {
		InternalError(c, "failed to mark notifications read: "+err.Error())
		return
	}
	Success(c, nil)
}
