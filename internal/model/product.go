package model

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProductInput struct {
	ID    string  `json:"id" binding:"required,uuid"`
	Name  string  `json:"name" binding:"required,max=255"`
	Price float64 `json:"price" binding:"required,gt=0"`
	Image string  `json:"image" binding:"max=2048"`
}

type ProductPage struct {
	Items []Product `json:"items"`
	Total int64     `json:"total"`
}

type PresignResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
