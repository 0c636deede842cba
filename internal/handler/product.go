package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/service"
)

type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param perPage query int false "Page size (max 100)"
// @Param sort query string false "name, price, createdAt or updatedAt"
// @Param order query string false "ASC or DESC"
// @Success 200 {object} model.ProductPage
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
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

// GetProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// PresignImage godoc
// @Summary Presigned image upload URL
// @Description Without id a new product id is allocated. The URL expires in 5 minutes.
// @Tags products
// @Produce json
// @Param id query string false "Existing product ID"
// @Success 200 {object} model.PresignResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/products/presign [get]
func (h *ProductHandler) PresignImage(c *gin.Context) {
	resp, err := h.svc.Presign(c.Request.Context(), c.Query("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param request body model.ProductInput true "Product"
// @Success 201 {object} model.Product
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input model.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c)
		return
	}

	product, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct godoc
// @Summary Update a product
// @Description An empty image keeps the current one.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body model.ProductInput true "Product"
// @Success 200 {object} model.StatusResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	input := model.ProductInput{ID: id.String()}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c)
		return
	}

	if err := h.svc.Update(c.Request.Context(), id, input); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "Success"})
}

// DeleteProduct godoc
// @Summary Delete a product and its image
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} model.StatusResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
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
