package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Me godoc
// @Summary Current user
// @Description Returns null for anonymous callers.
// @Tags auth
// @Produce json
// @Success 200 {object} model.UserDetail
// @Router /api/v1/auth/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	identity := GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	user, err := h.svc.Me(c.Request.Context(), identity.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change password
// @Tags me
// @Accept json
// @Produce json
// @Param request body model.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} model.StatusResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), GetIdentity(c).ID, req.Password, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "Success"})
}

// EditProfile godoc
// @Summary Edit profile
// @Tags me
// @Accept json
// @Produce json
// @Param request body model.EditProfileRequest true "Profile fields"
// @Success 200 {object} model.StatusResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/me/profile [put]
func (h *UserHandler) EditProfile(c *gin.Context) {
	var req model.EditProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if err := h.svc.EditProfile(c.Request.Context(), GetIdentity(c).ID, req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "Success"})
}

// AddToCart godoc
// @Summary Add a product to the cart
// @Tags me
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} model.StatusResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/me/cart/{productId} [post]
func (h *UserHandler) AddToCart(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	if err := h.svc.AddToCart(c.Request.Context(), GetIdentity(c).ID, productID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "Success"})
}

// RemoveFromCart godoc
// @Summary Remove a product from the cart
// @Description all=true removes every occurrence, otherwise one.
// @Tags me
// @Produce json
// @Param productId path string true "Product ID"
// @Param all query bool false "Remove every occurrence"
// @Success 200 {object} model.StatusResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/me/cart/{productId} [delete]
func (h *UserHandler) RemoveFromCart(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	all, err := strconv.ParseBool(c.DefaultQuery("all", "false"))
	if err != nil {
		badRequest(c)
		return
	}

	if err := h.svc.RemoveFromCart(c.Request.Context(), GetIdentity(c).ID, productID, all); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "Success"})
}

// ToggleFavourite godoc
// @Summary Toggle a favourite product
// @Tags me
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} model.StatusResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/me/favourites/{productId} [post]
func (h *UserHandler) ToggleFavourite(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	if _, err := h.svc.ToggleFavourite(c.Request.Context(), GetIdentity(c).ID, productID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "Success"})
}

// ListCustomers godoc
// @Summary List customers
// @Tags customers
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param perPage query int false "Page size (max 100)"
// @Param sort query string false "email, firstname, lastname, createdAt or updatedAt"
// @Param order query string false "ASC or DESC"
// @Success 200 {object} model.UserPage
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/customers [get]
func (h *UserHandler) ListCustomers(c *gin.Context) {
	var params model.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c)
		return
	}

	page, err := h.svc.ListCustomers(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetCustomer godoc
// @Summary Get a customer
// @Tags customers
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/customers/{id} [get]
func (h *UserHandler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.svc.GetCustomer(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
