package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stcker/backend/internal/model"
)

var productSortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var product model.Product
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Image,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// ListProducts - 상품 목록 + 전체 개수
func (db *Postgres) ListProducts(ctx context.Context, params model.ListParams) ([]model.Product, int64, error) {
	query := `
		SELECT id, name, price, image, created_at, updated_at
		FROM products
		ORDER BY ` + orderClause(params, productSortColumns, "created_at DESC")
	limit, args := limitClause(params, 1, nil)
	query += limit

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (db *Postgres) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return scanProduct(db.Pool.QueryRow(ctx, `
		SELECT id, name, price, image, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id))
}

// GetProductsByIDs - ID 목록에 해당하는 상품 (순서 무관, 중복 제거)
func (db *Postgres) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, price, image, created_at, updated_at
		FROM products
		WHERE id = ANY($1::uuid[])
	`, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

func (db *Postgres) CreateProduct(ctx context.Context, p model.Product) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO products (id, name, price, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`, p.ID, p.Name, p.Price, p.Image)
	return err
}

// UpdateProduct - image가 빈 문자열이면 기존 이미지를 유지
func (db *Postgres) UpdateProduct(ctx context.Context, p model.Product) error {
	return db.execOne(ctx, `
		UPDATE products
		SET name = $2,
			price = $3,
			image = CASE WHEN $4 = '' THEN image ELSE $4 END,
			updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, p.Price, p.Image)
}

func (db *Postgres) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return db.execOne(ctx, `DELETE FROM products WHERE id = $1`, id)
}
