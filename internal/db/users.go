package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stcker/backend/internal/model"
)

const userColumns = `
	u.id, u.email, u.firstname, u.lastname, u.password_hash, u.role, u.is_email_verified,
	COALESCE((SELECT array_agg(c.product_id::text ORDER BY c.id) FROM cart_items c WHERE c.user_id = u.id), '{}'),
	COALESCE((SELECT array_agg(f.product_id::text ORDER BY f.created_at) FROM favourites f WHERE f.user_id = u.id), '{}'),
	u.created_at, u.updated_at
`

var userSortColumns = map[string]string{
	"email":     "u.email",
	"firstname": "u.firstname",
	"lastname":  "u.lastname",
	"createdAt": "u.created_at",
	"updatedAt": "u.updated_at",
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		user       model.User
		role       string
		carts      []string
		favourites []string
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Firstname,
		&user.Lastname,
		&user.PasswordHash,
		&role,
		&user.IsEmailVerified,
		&carts,
		&favourites,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	if user.Role, err = model.ParseRole(role); err != nil {
		return nil, err
	}
	if user.Carts, err = parseIDs(carts); err != nil {
		return nil, err
	}
	if user.Favourites, err = parseIDs(favourites); err != nil {
		return nil, err
	}
	return &user, nil
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid stored id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// CreateUser - 신규 사용자 저장 (ID는 호출자가 생성)
func (db *Postgres) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (id, email, firstname, lastname, password_hash, role, is_email_verified, created_at, updated_at)
		VALUES ($1, LOWER($2), $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id
	`
	var id uuid.UUID
	err := db.Pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Firstname,
		user.Lastname,
		user.PasswordHash,
		user.Role.String(),
		user.IsEmailVerified,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return db.GetUserByID(ctx, id)
}

func (db *Postgres) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.email = LOWER($1)`
	return scanUser(db.Pool.QueryRow(ctx, query, email))
}

func (db *Postgres) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return db.execOne(ctx, `
		UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1
	`, id, passwordHash)
}

func (db *Postgres) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return db.execOne(ctx, `
		UPDATE users SET is_email_verified = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
}

func (db *Postgres) UpdateProfile(ctx context.Context, id uuid.UUID, email, firstname, lastname string) error {
	return db.execOne(ctx, `
		UPDATE users
		SET email = LOWER($2), firstname = $3, lastname = $4, updated_at = NOW()
		WHERE id = $1
	`, id, email, firstname, lastname)
}

// ListUsersByRole - 역할별 사용자 목록 + 전체 개수
func (db *Postgres) ListUsersByRole(ctx context.Context, role model.Role, params model.ListParams) ([]model.User, int64, error) {
	args := []any{role.String()}
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.role = $1 ORDER BY ` +
		orderClause(params, userSortColumns, "u.created_at DESC")
	limit, args := limitClause(params, 2, args)
	query += limit

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role.String()).Scan(&total); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// AddCartItem - 사용자 행을 잠근 뒤 담긴 개수가 limit 미만일 때만 추가
// 동시 요청이 있어도 장바구니는 limit을 넘지 않는다.
func (db *Postgres) AddCartItem(ctx context.Context, userID, productID uuid.UUID, limit int) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&locked)
	if err != nil {
		return notFound(err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, created_at)
		SELECT $1, $2, $3
		WHERE (SELECT COUNT(*) FROM cart_items WHERE user_id = $1) < $4
	`, userID, productID, time.Now(), limit)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLimitReached
	}

	return tx.Commit(ctx)
}

// RemoveCartItem - all이면 해당 상품 전체, 아니면 가장 먼저 담긴 1개만 삭제
func (db *Postgres) RemoveCartItem(ctx context.Context, userID, productID uuid.UUID, all bool) error {
	if all {
		_, err := db.Pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
		return err
	}
	_, err := db.Pool.Exec(ctx, `
		DELETE FROM cart_items
		WHERE id = (
			SELECT id FROM cart_items
			WHERE user_id = $1 AND product_id = $2
			ORDER BY id
			LIMIT 1
		)
	`, userID, productID)
	return err
}

func (db *Postgres) AddFavourite(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO favourites (user_id, product_id, created_at) VALUES ($1, $2, NOW())
		ON CONFLICT DO NOTHING
	`, userID, productID)
	return err
}

func (db *Postgres) RemoveFavourite(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM favourites WHERE user_id = $1 AND product_id = $2`, userID, productID)
	return err
}

// execOne runs a single-row update and reports ErrNotFound when nothing matched.
func (db *Postgres) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
