package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/ratelimit"
	"github.com/stcker/backend/internal/service"
)

const rateLimitedMessage = "You have sent too much requests. Please try again later"

var errorTable = []struct {
	err     error
	status  int
	message string
}{
	{ratelimit.ErrRateLimited, http.StatusTooManyRequests, rateLimitedMessage},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid Email or Password"},
	{service.ErrEmailNotVerified, http.StatusForbidden, "Please verify your email address"},
	{service.ErrNotAdmin, http.StatusForbidden, "You are not an admin"},
	{service.ErrEmailTaken, http.StatusConflict, "A user with this email already exists"},
	{service.ErrInvalidToken, http.StatusBadRequest, "Invalid or expired token"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrAlreadyVerified, http.StatusConflict, "Account is already verified"},
	{service.ErrPasswordMismatch, http.StatusBadRequest, "Password does not match former password"},
	{service.ErrGoogleUnavailable, http.StatusServiceUnavailable, "Google sign-in is not available"},
	{service.ErrInvalidGoogleToken, http.StatusUnauthorized, "Token is not valid"},
	{service.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{service.ErrProductExists, http.StatusConflict, "A product with this id already exists"},
	{service.ErrCartFull, http.StatusConflict, "Your cart is full. Please remove some items"},
	{service.ErrFavouritesFull, http.StatusConflict, "Your favourites is full. Please remove some items"},
	{service.ErrStorageUnavailable, http.StatusServiceUnavailable, "Image storage is not available"},
	{service.ErrRequestNotFound, http.StatusNotFound, "Request not found"},
	{service.ErrSomeRequestsNotFound, http.StatusNotFound, "Some requests are not found"},
	{service.ErrRequestNotReplied, http.StatusConflict, "Please reply to this request before deleting"},
	{service.ErrRequestsNotReplied, http.StatusConflict, "Please reply to all unreplied requests before deleting"},
	{service.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{service.ErrPaymentFinalised, http.StatusConflict, "Payment status cannot be updated after being completed"},
	{service.ErrOrderDelivered, http.StatusConflict, "Order status cannot be updated after being delivered"},
	{service.ErrCartEmpty, http.StatusBadRequest, "Cart is empty. Please add items to your cart"},
}

// writeError maps service and limiter errors to a status and message.
// Anything unrecognised is a 500 and is attached to the context for the
// request logger.
func writeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: inputMessage(err)})
		return
	}
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			c.JSON(e.status, model.ErrorResponse{Error: e.message})
			return
		}
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
}

func inputMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error())
	msg = strings.TrimPrefix(msg, ": ")
	if msg == "" {
		return "Invalid input"
	}
	return msg
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
}

// pathID parses a uuid path parameter, answering 400 when it is malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid ID"})
		return uuid.Nil, false
	}
	return id, true
}
