package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stcker/backend/internal/config"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/service"
)

type SocialHandler struct {
	svc     *service.SocialService
	cookies config.CookieConfig
}

func NewSocialHandler(svc *service.SocialService, cookies config.CookieConfig) *SocialHandler {
	return &SocialHandler{svc: svc, cookies: cookies}
}

// GoogleLogin godoc
// @Summary Login with a Google ID token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.GoogleRequest true "Google ID token"
// @Success 200 {object} model.User
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/auth/google/login [post]
func (h *SocialHandler) GoogleLogin(c *gin.Context) {
	var req model.GoogleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	signed, err := h.svc.GoogleLogin(c.Request.Context(), req.TokenID, req.AsAdmin)
	if err != nil {
		writeError(c, err)
		return
	}

	setSessionCookies(c, h.cookies, signed)
	c.JSON(http.StatusOK, signed.User)
}

// GoogleSignup godoc
// @Summary Sign up with a Google ID token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.GoogleRequest true "Google ID token"
// @Success 201 {object} model.User
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/auth/google/signup [post]
func (h *SocialHandler) GoogleSignup(c *gin.Context) {
	var req model.GoogleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	signed, err := h.svc.GoogleSignup(c.Request.Context(), req.TokenID)
	if err != nil {
		writeError(c, err)
		return
	}

	setSessionCookies(c, h.cookies, signed)
	c.JSON(http.StatusCreated, signed.User)
}

// GoogleURL godoc
// @Summary Google authorization URL
// @Tags auth
// @Produce json
// @Param state query string false "Opaque state echoed back to the callback"
// @Success 200 {object} model.GoogleURLResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /api/v1/auth/google/url [get]
func (h *SocialHandler) GoogleURL(c *gin.Context) {
	url, err := h.svc.GoogleURL(c.Query("state"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.GoogleURLResponse{URL: url})
}

// GoogleCallback godoc
// @Summary Complete the Google authorization-code flow
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.GoogleCallbackRequest true "Authorization code"
// @Success 200 {object} model.User
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/auth/google/callback [post]
func (h *SocialHandler) GoogleCallback(c *gin.Context) {
	var req model.GoogleCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	signed, err := h.svc.GoogleCallback(c.Request.Context(), req.Code, req.AsAdmin)
	if err != nil {
		writeError(c, err)
		return
	}

	setSessionCookies(c, h.cookies, signed)
	c.JSON(http.StatusOK, signed.User)
}
