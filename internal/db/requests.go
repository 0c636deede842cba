package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stcker/backend/internal/model"
)

var requestSortColumns = map[string]string{
	"email":     "email",
	"subject":   "subject",
	"replied":   "replied",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func scanRequest(row pgx.Row) (*model.SupportRequest, error) {
	var req model.SupportRequest
	err := row.Scan(
		&req.ID,
		&req.Email,
		&req.Subject,
		&req.Message,
		&req.Replied,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &req, nil
}

func (db *Postgres) CreateRequest(ctx context.Context, req model.SupportRequest) (*model.SupportRequest, error) {
	return scanRequest(db.Pool.QueryRow(ctx, `
		INSERT INTO support_requests (id, email, subject, message, replied, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW(), NOW())
		RETURNING id, email, subject, message, replied, created_at, updated_at
	`, req.ID, req.Email, req.Subject, req.Message))
}

// ListRequests - 문의 목록 + 전체 개수
func (db *Postgres) ListRequests(ctx context.Context, params model.ListParams) ([]model.SupportRequest, int64, error) {
	query := `
		SELECT id, email, subject, message, replied, created_at, updated_at
		FROM support_requests
		ORDER BY ` + orderClause(params, requestSortColumns, "created_at DESC")
	limit, args := limitClause(params, 1, nil)
	query += limit

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query support requests: %w", err)
	}
	defer rows.Close()

	requests := []model.SupportRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM support_requests`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (db *Postgres) GetRequest(ctx context.Context, id uuid.UUID) (*model.SupportRequest, error) {
	return scanRequest(db.Pool.QueryRow(ctx, `
		SELECT id, email, subject, message, replied, created_at, updated_at
		FROM support_requests
		WHERE id = $1
	`, id))
}

func (db *Postgres) GetRequestsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.SupportRequest, error) {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, email, subject, message, replied, created_at, updated_at
		FROM support_requests
		WHERE id = ANY($1::uuid[])
	`, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to query support requests: %w", err)
	}
	defer rows.Close()

	requests := []model.SupportRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

func (db *Postgres) MarkRequestReplied(ctx context.Context, id uuid.UUID) error {
	return db.execOne(ctx, `
		UPDATE support_requests SET replied = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
}

func (db *Postgres) DeleteRequests(ctx context.Context, ids []uuid.UUID) error {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	_, err := db.Pool.Exec(ctx, `DELETE FROM support_requests WHERE id = ANY($1::uuid[])`, raw)
	return err
}
