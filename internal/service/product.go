package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stcker/backend/internal/db"
	"github.com/stcker/backend/internal/model"
	"go.uber.org/zap"
)

const presignExpiry = 5 * time.Minute

type ProductService struct {
	products ProductStore
	objects  ObjectStore
	logger   *zap.Logger
}

// NewProductService accepts a nil objects store; image operations then fail
// with ErrStorageUnavailable.
func NewProductService(products ProductStore, objects ObjectStore, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{products: products, objects: objects, logger: logger}
}

func ProductImageKey(id uuid.UUID) string {
	return "products/" + id.String()
}

func (s *ProductService) List(ctx context.Context, params model.ListParams) (*model.ProductPage, error) {
	items, total, err := s.products.ListProducts(ctx, params)
	if err != nil {
		return nil, err
	}
	return &model.ProductPage{Items: items, Total: total}, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, mapProductErr(err)
	}
	return product, nil
}

// Presign returns an upload URL for the product image. An empty rawID
// allocates the id the product will later be created with.
func (s *ProductService) Presign(ctx context.Context, rawID string) (*model.PresignResponse, error) {
	if s.objects == nil {
		return nil, ErrStorageUnavailable
	}

	id := uuid.New()
	if strings.TrimSpace(rawID) != "" {
		parsed, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid id", ErrInvalidInput)
		}
		if _, err := s.products.GetProduct(ctx, parsed); err != nil {
			return nil, mapProductErr(err)
		}
		id = parsed
	}

	url, err := s.objects.PresignPut(ctx, ProductImageKey(id), presignExpiry)
	if err != nil {
		return nil, err
	}
	return &model.PresignResponse{ID: id.String(), URL: url}, nil
}

func (s *ProductService) Create(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	product, err := productFromInput(input)
	if err != nil {
		return nil, err
	}

	if err := s.products.CreateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrProductExists
		}
		return nil, err
	}
	return s.Get(ctx, product.ID)
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, input model.ProductInput) error {
	input.ID = id.String()
	product, err := productFromInput(input)
	if err != nil {
		return err
	}
	return mapProductErr(s.products.UpdateProduct(ctx, product))
}

// Delete removes the stored image first so a failed object delete leaves
// the product in place.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return mapProductErr(err)
	}

	if product.Image != "" {
		if s.objects == nil {
			return ErrStorageUnavailable
		}
		if err := s.objects.DeleteObject(ctx, ProductImageKey(id)); err != nil {
			s.logger.Error("failed to delete product image",
				zap.String("product_id", id.String()),
				zap.Error(err))
			return err
		}
	}

	return mapProductErr(s.products.DeleteProduct(ctx, id))
}

func productFromInput(input model.ProductInput) (model.Product, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return model.Product{}, fmt.Errorf("%w: invalid id", ErrInvalidInput)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Price <= 0 {
		return model.Product{}, fmt.Errorf("%w: name and a positive price are required", ErrInvalidInput)
	}
	return model.Product{
		ID:    id,
		Name:  name,
		Price: input.Price,
		Image: strings.TrimSpace(input.Image),
	}, nil
}

func mapProductErr(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}
