package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/quayside/stockpilot/internal/inventory/service"
)

type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// List GET /api/v1/products?category_id=&supplier_id=&search=
func (h *ProductHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"category_id": c.Query("category_id"),
		"supplier_id": c.Query("supplier_id"),
		"search":      c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "failed to list products: "+err.Error())
		return
	}

	Success(c, NewListResponse(items, page, pageSize, total))
}

// LowStock GET /api/v1/products/low-stock
func (h *ProductHandler) LowStock(c *gin.Context) {
	items, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to list low stock products: "+err.Error())
		return
	}
	Success(c, items)
}

// Get GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "product not found")
		return
	}
	Success(c, product)
}

// History GET /api/v1/products/:id/history
func (h *ProductHandler) History(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.History(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, NewListResponse(items, page, pageSize, total))
}

// Create POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	product, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		FromError(c, err)
		return
	}
	Created(c, product)
}

// Update PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	product, err := h.svc.Update(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, product)
}

// Delete DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		FromError(c, err)
		return
	}
	Success(c, nil)
}
