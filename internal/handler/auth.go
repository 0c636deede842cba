package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stcker/backend/internal/config"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/service"
)

type AuthHandler struct {
	svc     *service.AuthService
	cookies config.CookieConfig
}

func NewAuthHandler(svc *service.AuthService, cookies config.CookieConfig) *AuthHandler {
	return &AuthHandler{svc: svc, cookies: cookies}
}

// Login godoc
// @Summary Login
// @Description Sets the access and refresh cookies on success.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 200 {object} model.User
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 429 {object} model.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	signed, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, req.AsAdmin)
	if err != nil {
		writeError(c, err)
		return
	}

	setSessionCookies(c, h.cookies, signed)
	c.JSON(http.StatusOK, signed.User)
}

// Logout godoc
// @Summary Logout
// @Description Clears both session cookies.
// @Tags auth
// @Produce json
// @Success 200 {object} model.StatusResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	clearSessionCookies(c, h.cookies)
	c.JSON(http.StatusOK, model.StatusResponse{Status: "Success"})
}

// Register godoc
// @Summary Register a new customer
// @Description Creates an unverified account and emails a verification link.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Account details"
// @Success 201 {object} model.StatusResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 429 {object} model.ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if err := h.svc.Register(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.StatusResponse{Status: "Success"})
}

// VerifyEmail godoc
// @Summary Verify email address
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.TokenRequest true "Token from the verification link"
// @Success 200 {object} model.User
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req model.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	signed, err := h.svc.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		writeError(c, err)
		return
	}

	setSessionCookies(c, h.cookies, signed)
	c.JSON(http.StatusOK, signed.User)
}

// ResendVerification godoc
// @Summary Resend the verification email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.EmailRequest true "Account email"
// @Success 200 {object} model.StatusResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req model.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if err := h.svc.ResendVerification(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "Success"})
}

// RequestPasswordReset godoc
// @Summary Email a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.EmailRequest true "Account email"
// @Success 200 {object} model.StatusResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/auth/password-reset/request [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req model.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "Success"})
}

// ResetPassword godoc
// @Summary Reset password
// @Description Sets a new password and signs the user in.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.ResetPasswordRequest true "Reset code and new password"
// @Success 200 {object} model.User
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/auth/password-reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	signed, err := h.svc.ResetPassword(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	setSessionCookies(c, h.cookies, signed)
	c.JSON(http.StatusOK, signed.User)
}
