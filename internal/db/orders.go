package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stcker/backend/internal/model"
)

const orderColumns = `
	id, user_id, provider_order_id, capture_id, items, shipping_details,
	gross_amount, payment_status, order_status, created_at, updated_at
`

var orderSortColumns = map[string]string{
	"grossAmount":   "gross_amount",
	"paymentStatus": "payment_status",
	"orderStatus":   "order_status",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.ProviderOrderID,
		&order.CaptureID,
		&order.Items,
		&order.ShippingDetails,
		&order.GrossAmount,
		&order.PaymentStatus,
		&order.OrderStatus,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if order.Items == nil {
		order.Items = []model.OrderItem{}
	}
	return &order, nil
}

func scanOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// PlaceOrder - 주문 저장과 장바구니 비우기를 한 트랜잭션으로 처리
func (db *Postgres) PlaceOrder(ctx context.Context, order model.Order) (*model.Order, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	created, err := scanOrder(tx.QueryRow(ctx, `
		INSERT INTO orders (
			id, user_id, provider_order_id, capture_id, items, shipping_details,
			gross_amount, payment_status, order_status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING `+orderColumns,
		order.ID, order.UserID, order.ProviderOrderID, order.CaptureID, order.Items, order.ShippingDetails,
		order.GrossAmount, order.PaymentStatus, order.OrderStatus))
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, order.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// ListOrders - 전체 주문 목록 + 전체 개수
func (db *Postgres) ListOrders(ctx context.Context, params model.ListParams) ([]model.Order, int64, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY ` + orderClause(params, orderSortColumns, "created_at DESC")
	limit, args := limitClause(params, 1, nil)
	query += limit

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (db *Postgres) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	return scanOrders(rows)
}

func (db *Postgres) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return scanOrder(db.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

// UpdateOrder locks the order row, lets apply change it, and writes the
// statuses back. Nothing is written when apply fails.
func (db *Postgres) UpdateOrder(ctx context.Context, id uuid.UUID, apply func(*model.Order) error) (*model.Order, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	order, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	if err := apply(order); err != nil {
		return nil, err
	}

	updated, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders
		SET payment_status = $2, order_status = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns,
		id, order.PaymentStatus, order.OrderStatus))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}
