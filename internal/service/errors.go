package service

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrNotAdmin           = errors.New("not an admin")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrPasswordMismatch   = errors.New("password does not match")

	ErrGoogleUnavailable  = errors.New("google sign-in not configured")
	ErrInvalidGoogleToken = errors.New("invalid google token")

	ErrProductNotFound    = errors.New("product not found")
	ErrProductExists      = errors.New("product already exists")
	ErrCartFull           = errors.New("cart full")
	ErrFavouritesFull     = errors.New("favourites full")
	ErrStorageUnavailable = errors.New("object storage not configured")

	ErrRequestNotFound      = errors.New("request not found")
	ErrSomeRequestsNotFound = errors.New("some requests not found")
	ErrRequestNotReplied    = errors.New("request not replied")
	ErrRequestsNotReplied   = errors.New("requests not replied")

	ErrOrderNotFound    = errors.New("order not found")
	ErrPaymentFinalised = errors.New("payment status locked after completion")
	ErrOrderDelivered   = errors.New("order status locked after delivery")
	ErrCartEmpty        = errors.New("cart empty")
)
