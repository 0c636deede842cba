package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stcker/backend/internal/model"
)

// UserStore is the subset of *db.Postgres the account services use.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	UpdateProfile(ctx context.Context, id uuid.UUID, email, firstname, lastname string) error
	ListUsersByRole(ctx context.Context, role model.Role, params model.ListParams) ([]model.User, int64, error)
	AddCartItem(ctx context.Context, userID, productID uuid.UUID, limit int) error
	RemoveCartItem(ctx context.Context, userID, productID uuid.UUID, all bool) error
	AddFavourite(ctx context.Context, userID, productID uuid.UUID) error
	RemoveFavourite(ctx context.Context, userID, productID uuid.UUID) error
}

type ProductStore interface {
	ListProducts(ctx context.Context, params model.ListParams) ([]model.Product, int64, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	CreateProduct(ctx context.Context, p model.Product) error
	UpdateProduct(ctx context.Context, p model.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type RequestStore interface {
	CreateRequest(ctx context.Context, req model.SupportRequest) (*model.SupportRequest, error)
	ListRequests(ctx context.Context, params model.ListParams) ([]model.SupportRequest, int64, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*model.SupportRequest, error)
	GetRequestsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.SupportRequest, error)
	MarkRequestReplied(ctx context.Context, id uuid.UUID) error
	DeleteRequests(ctx context.Context, ids []uuid.UUID) error
}

type OrderStore interface {
	PlaceOrder(ctx context.Context, order model.Order) (*model.Order, error)
	ListOrders(ctx context.Context, params model.ListParams) ([]model.Order, int64, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, apply func(*model.Order) error) (*model.Order, error)
}

// ObjectStore is satisfied by *client.S3Client.
type ObjectStore interface {
	PresignPut(ctx context.Context, key string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// GoogleAuth is satisfied by *client.GoogleClient.
type GoogleAuth interface {
	VerifyIDToken(ctx context.Context, rawIDToken string) (*model.GoogleProfile, error)
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}

// Notifier is satisfied by *client.SlackClient.
type Notifier interface {
	NotifySupportRequest(ctx context.Context, req *model.SupportRequest) error
}
