package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus - 배송 진행 상태 (PENDING → PLACED → SHIPPING → DELIVERED)
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPlaced    OrderStatus = "PLACED"
	OrderShipping  OrderStatus = "SHIPPING"
	OrderDelivered OrderStatus = "DELIVERED"
)

// PaymentStatus mirrors the payment provider's capture status.
type PaymentStatus string

const (
	PaymentCreated             PaymentStatus = "CREATED"
	PaymentSaved               PaymentStatus = "SAVED"
	PaymentApproved            PaymentStatus = "APPROVED"
	PaymentVoided              PaymentStatus = "VOIDED"
	PaymentCompleted           PaymentStatus = "COMPLETED"
	PaymentPayerActionRequired PaymentStatus = "PAYER_ACTION_REQUIRED"
)

// OrderItem is a product snapshot taken when the order was placed.
type OrderItem struct {
	ProductID uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

type ShippingDetails struct {
	Fullname    string `json:"fullname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	Country     string `json:"country"`
}

type Order struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user"`
	ProviderOrderID string          `json:"orderId"`
	CaptureID       string          `json:"captureId"`
	Items           []OrderItem     `json:"items"`
	ShippingDetails ShippingDetails `json:"shippingDetails"`
	GrossAmount     float64         `json:"grossAmount"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	OrderStatus     OrderStatus     `json:"orderStatus"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderCapture is what a completed payment capture reports back.
type OrderCapture struct {
	ProviderOrderID string
	CaptureID       string
	PaymentStatus   PaymentStatus
	ShippingDetails ShippingDetails
}

type UpdateOrderInput struct {
	PaymentStatus PaymentStatus `json:"paymentStatus" binding:"required,oneof=CREATED SAVED APPROVED VOIDED COMPLETED PAYER_ACTION_REQUIRED"`
	OrderStatus   OrderStatus   `json:"orderStatus" binding:"required,oneof=PENDING PLACED SHIPPING DELIVERED"`
}

type OrderPage struct {
	Items []Order `json:"items"`
	Total int64   `json:"total"`
}
