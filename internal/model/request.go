package model

import (
	"time"

	"github.com/google/uuid"
)

// SupportRequest is a customer-support case.
type SupportRequest struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Replied   bool      `json:"replied"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SupportRequestInput struct {
	Email   string `json:"email" binding:"required,email,max=255"`
	Subject string `json:"subject" binding:"required,max=255"`
	Message string `json:"message" binding:"required,max=1024"`
}

type ReplyInput struct {
	Message string `json:"message" binding:"required,max=4096"`
}

type DeleteRequestsInput struct {
	IDs []string `json:"ids" binding:"required"`
}

type SupportRequestPage struct {
	Items []SupportRequest `json:"items"`
	Total int64            `json:"total"`
}
