package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/service"
)

type RequestHandler struct {
	svc *service.RequestService
}

func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

// CreateRequest godoc
// @Summary Open a support request
// @Tags requests
// @Accept json
// @Produce json
// @Param request body model.SupportRequestInput true "Support request"
// @Success 201 {object} model.StatusResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 429 {object} model.ErrorResponse
// @Router /api/v1/requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var input model.SupportRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c)
		return
	}

	if _, err := h.svc.Create(c.Request.Context(), input); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.StatusResponse{Status: "Success"})
}

// ListRequests godoc
// @Summary List support requests
// @Tags requests
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param perPage query int false "Page size (max 100)"
// @Param sort query string false "email, subject, replied, createdAt or updatedAt"
// @Param order query string false "ASC or DESC"
// @Success 200 {object} model.SupportRequestPage
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
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

// GetRequest godoc
// @Summary Get a support request
// @Tags requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} model.SupportRequest
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/requests/{id} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	req, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ReplyRequest godoc
// @Summary Reply to a support request
// @Tags requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body model.ReplyInput true "Reply"
// @Success 200 {object} model.StatusResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/requests/{id}/reply [post]
func (h *RequestHandler) ReplyRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input model.ReplyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c)
		return
	}

	if err := h.svc.Reply(c.Request.Context(), id, input.Message); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "Success"})
}

// DeleteRequest godoc
// @Summary Delete a replied support request
// @Tags requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} model.StatusResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/requests/{id} [delete]
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "Success"})
}

// DeleteRequests godoc
// @Summary Delete several replied support requests
// @Description All ids must exist and be replied, otherwise nothing is deleted.
// @Tags requests
// @Accept json
// @Produce json
// @Param request body model.DeleteRequestsInput true "Request IDs"
// @Success 200 {object} model.StatusResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/requests [delete]
func (h *RequestHandler) DeleteRequests(c *gin.Context) {
	var input model.DeleteRequestsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c)
		return
	}

	if err := h.svc.DeleteMany(c.Request.Context(), input.IDs); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "Success"})
}
