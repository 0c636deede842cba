package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/service"
)

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// ListOrders godoc
// @Summary List all orders
// @Tags orders
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param perPage query int false "Page size (max 100)"
// @Param sort query string false "grossAmount, paymentStatus, orderStatus, createdAt or updatedAt"
// @Param order query string false "ASC or DESC"
// @Success 200 {object} model.OrderPage
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var params model.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c)
		return
	}

	page, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// MyOrders godoc
// @Summary List the caller's orders
// @Tags me
// @Produce json
// @Success 200 {array} model.Order
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/me/orders [get]
func (h *OrderHandler) MyOrders(c *gin.Context) {
	orders, err := h.svc.ListForUser(c.Request.Context(), GetIdentity(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder godoc
// @Summary Get an order
// @Description Customers can only read their own orders.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} model.Order
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.svc.Get(c.Request.Context(), GetIdentity(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrder godoc
// @Summary Update order and payment status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body model.UpdateOrderInput true "New statuses"
// @Success 200 {object} model.StatusResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/orders/{id} [put]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input model.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c)
		return
	}

	if _, err := h.svc.Update(c.Request.Context(), id, input); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "Success"})
}
