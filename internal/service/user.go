package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/stcker/backend/internal/db"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/session"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxCartItems  = 50
	maxFavourites = 100
)

type UserService struct {
	users    UserStore
	products ProductStore
	hashCost int
}

func NewUserService(users UserStore, products ProductStore) *UserService {
	return &UserService{users: users, products: products, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

// FindUserByID resolves session subjects. Missing users report
// session.ErrSubjectNotFound so the refresher can tell them from store errors.
func (s *UserService) FindUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, session.ErrSubjectNotFound
		}
		return nil, err
	}
	return user, nil
}

// Me returns the user with cart and favourites expanded. Cart order and
// duplicates are preserved; ids of deleted products are skipped.
func (s *UserService) Me(ctx context.Context, id uuid.UUID) (*model.UserDetail, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapUserErr(err)
	}

	ids := slices.Concat(user.Carts, user.Favourites)
	products, err := s.products.GetProductsByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	return &model.UserDetail{
		User:              *user,
		CartProducts:      expand(user.Carts, byID),
		FavouriteProducts: expand(user.Favourites, byID),
	}, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, password, newPassword string) error {
	if !validPassword(newPassword) {
		return fmt.Errorf("%w: password must be %d to %d characters", ErrInvalidInput, minPasswordLength, maxPasswordLength)
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return mapUserErr(err)
	}
	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrPasswordMismatch
	}

	hash, err := hashPassword(newPassword, s.hashCost)
	if err != nil {
		return err
	}
	return mapUserErr(s.users.UpdatePassword(ctx, id, hash))
}

func (s *UserService) EditProfile(ctx context.Context, id uuid.UUID, req model.EditProfileRequest) error {
	email := normalizeEmail(req.Email)
	firstname := strings.TrimSpace(req.Firstname)
	lastname := strings.TrimSpace(req.Lastname)
	if email == "" || len(email) > maxEmailLength {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if firstname == "" || len(firstname) > maxNameLength || lastname == "" || len(lastname) > maxNameLength {
		return fmt.Errorf("%w: names must be 1 to %d characters", ErrInvalidInput, maxNameLength)
	}

	err := s.users.UpdateProfile(ctx, id, email, firstname, lastname)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return mapUserErr(err)
	}
	return nil
}

// AddToCart appends one unit of the product. The cap is enforced by the
// store in the same statement as the insert.
func (s *UserService) AddToCart(ctx context.Context, id, productID uuid.UUID) error {
	if err := s.requireProduct(ctx, productID); err != nil {
		return err
	}
	err := s.users.AddCartItem(ctx, id, productID, maxCartItems)
	if errors.Is(err, db.ErrLimitReached) {
		return ErrCartFull
	}
	return mapUserErr(err)
}

// RemoveFromCart drops every occurrence when all is set, otherwise the oldest one.
func (s *UserService) RemoveFromCart(ctx context.Context, id, productID uuid.UUID, all bool) error {
	if _, err := s.users.GetUserByID(ctx, id); err != nil {
		return mapUserErr(err)
	}
	if err := s.requireProduct(ctx, productID); err != nil {
		return err
	}
	return s.users.RemoveCartItem(ctx, id, productID, all)
}

// ToggleFavourite reports whether the product is a favourite afterwards.
func (s *UserService) ToggleFavourite(ctx context.Context, id, productID uuid.UUID) (bool, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return false, mapUserErr(err)
	}
	if err := s.requireProduct(ctx, productID); err != nil {
		return false, err
	}

	if slices.Contains(user.Favourites, productID) {
		return false, s.users.RemoveFavourite(ctx, id, productID)
	}
	if len(user.Favourites) >= maxFavourites {
		return false, ErrFavouritesFull
	}
	return true, s.users.AddFavourite(ctx, id, productID)
}

func (s *UserService) ListCustomers(ctx context.Context, params model.ListParams) (*model.UserPage, error) {
	users, total, err := s.users.ListUsersByRole(ctx, model.RoleCustomer, params)
	if err != nil {
		return nil, err
	}
	return &model.UserPage{Items: users, Total: total}, nil
}

func (s *UserService) GetCustomer(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

func (s *UserService) requireProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return mapProductErr(err)
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func expand(ids []uuid.UUID, byID map[uuid.UUID]model.Product) []model.Product {
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
