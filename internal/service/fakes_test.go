package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stcker/backend/internal/client"
	"github.com/stcker/backend/internal/db"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/token"
)

var errStoreDown = errors.New("store down")

func newTestTokens() *token.Manager {
	m, err := token.NewManager(token.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		ActionSecret:  "action-secret",
	})
	if err != nil {
		panic(err)
	}
	return m
}

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*model.User
	err   error
	calls []string
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{byID: map[uuid.UUID]*model.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeUsers) get(id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *u
	cp.Carts = slices.Clone(u.Carts)
	cp.Favourites = slices.Clone(u.Favourites)
	return &cp, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateUser"); err != nil {
		return nil, err
	}
	for _, u := range f.byID {
		if u.Email == user.Email {
			return nil, &pgconn.PgError{Code: "23505"}
		}
	}
	cp := *user
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.byID[cp.ID] = &cp
	return f.get(cp.ID)
}

func (f *fakeUsers) GetUserByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetUserByID"); err != nil {
		return nil, err
	}
	return f.get(id)
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetUserByEmail"); err != nil {
		return nil, err
	}
	for id, u := range f.byID {
		if u.Email == email {
			return f.get(id)
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeUsers) update(name string, id uuid.UUID, fn func(*model.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(name); err != nil {
		return err
	}
	u, ok := f.byID[id]
	if !ok {
		return db.ErrNotFound
	}
	fn(u)
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	return f.update("UpdatePassword", id, func(u *model.User) { u.PasswordHash = hash })
}

func (f *fakeUsers) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	return f.update("MarkEmailVerified", id, func(u *model.User) { u.IsEmailVerified = true })
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id uuid.UUID, email, firstname, lastname string) error {
	f.mu.Lock()
	for otherID, u := range f.byID {
		if otherID != id && u.Email == email {
			f.mu.Unlock()
			return &pgconn.PgError{Code: "23505"}
		}
	}
	f.mu.Unlock()
	return f.update("UpdateProfile", id, func(u *model.User) {
		u.Email, u.Firstname, u.Lastname = email, firstname, lastname
	})
}

func (f *fakeUsers) ListUsersByRole(_ context.Context, role model.Role, _ model.ListParams) ([]model.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListUsersByRole"); err != nil {
		return nil, 0, err
	}
	var out []model.User
	for _, u := range f.byID {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeUsers) AddCartItem(_ context.Context, userID, productID uuid.UUID, limit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AddCartItem"); err != nil {
		return err
	}
	u, ok := f.byID[userID]
	if !ok {
		return db.ErrNotFound
	}
	if len(u.Carts) >= limit {
		return db.ErrLimitReached
	}
	u.Carts = append(u.Carts, productID)
	return nil
}

func (f *fakeUsers) RemoveCartItem(_ context.Context, userID, productID uuid.UUID, all bool) error {
	return f.update("RemoveCartItem", userID, func(u *model.User) {
		if all {
			u.Carts = slices.DeleteFunc(u.Carts, func(id uuid.UUID) bool { return id == productID })
			return
		}
		if i := slices.Index(u.Carts, productID); i >= 0 {
			u.Carts = slices.Delete(u.Carts, i, i+1)
		}
	})
}

func (f *fakeUsers) AddFavourite(_ context.Context, userID, productID uuid.UUID) error {
	return f.update("AddFavourite", userID, func(u *model.User) { u.Favourites = append(u.Favourites, productID) })
}

func (f *fakeUsers) RemoveFavourite(_ context.Context, userID, productID uuid.UUID) error {
	return f.update("RemoveFavourite", userID, func(u *model.User) {
		u.Favourites = slices.DeleteFunc(u.Favourites, func(id uuid.UUID) bool { return id == productID })
	})
}

type fakeProducts struct {
	byID map[uuid.UUID]model.Product
}

func newFakeProducts(products ...model.Product) *fakeProducts {
	f := &fakeProducts{byID: map[uuid.UUID]model.Product{}}
	for _, p := range products {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProducts) ListProducts(_ context.Context, _ model.ListParams) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProducts) GetProduct(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProducts) GetProductsByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) CreateProduct(_ context.Context, p model.Product) error {
	if _, ok := f.byID[p.ID]; ok {
		return &pgconn.PgError{Code: "23505"}
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProducts) UpdateProduct(_ context.Context, p model.Product) error {
	old, ok := f.byID[p.ID]
	if !ok {
		return db.ErrNotFound
	}
	if p.Image == "" {
		p.Image = old.Image
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProducts) DeleteProduct(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeRequests struct {
	byID map[uuid.UUID]model.SupportRequest
}

func newFakeRequests(reqs ...model.SupportRequest) *fakeRequests {
	f := &fakeRequests{byID: map[uuid.UUID]model.SupportRequest{}}
	for _, r := range reqs {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeRequests) CreateRequest(_ context.Context, req model.SupportRequest) (*model.SupportRequest, error) {
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	f.byID[req.ID] = req
	return &req, nil
}

func (f *fakeRequests) ListRequests(_ context.Context, _ model.ListParams) ([]model.SupportRequest, int64, error) {
	out := make([]model.SupportRequest, 0, len(f.byID))
	for _, r := range f.byID {
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequests) GetRequest(_ context.Context, id uuid.UUID) (*model.SupportRequest, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &r, nil
}

func (f *fakeRequests) GetRequestsByIDs(_ context.Context, ids []uuid.UUID) ([]model.SupportRequest, error) {
	var out []model.SupportRequest
	for _, id := range ids {
		if r, ok := f.byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequests) MarkRequestReplied(_ context.Context, id uuid.UUID) error {
	r, ok := f.byID[id]
	if !ok {
		return db.ErrNotFound
	}
	r.Replied = true
	f.byID[id] = r
	return nil
}

func (f *fakeRequests) DeleteRequests(_ context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(f.byID, id)
	}
	return nil
}

type fakeOrders struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]model.Order
	users *fakeUsers
}

func newFakeOrders(users *fakeUsers, orders ...model.Order) *fakeOrders {
	f := &fakeOrders{byID: map[uuid.UUID]model.Order{}, users: users}
	for _, o := range orders {
		f.byID[o.ID] = o
	}
	return f
}

func (f *fakeOrders) PlaceOrder(_ context.Context, order model.Order) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	f.byID[order.ID] = order
	if f.users != nil {
		f.users.mu.Lock()
		if u, ok := f.users.byID[order.UserID]; ok {
			u.Carts = nil
		}
		f.users.mu.Unlock()
	}
	return &order, nil
}

func (f *fakeOrders) ListOrders(_ context.Context, _ model.ListParams) ([]model.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Order, 0, len(f.byID))
	for _, o := range f.byID {
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrders) ListOrdersByUser(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Order{}
	for _, o := range f.byID {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) GetOrder(_ context.Context, id uuid.UUID) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &o, nil
}

func (f *fakeOrders) UpdateOrder(_ context.Context, id uuid.UUID, apply func(*model.Order) error) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	if err := apply(&o); err != nil {
		return nil, err
	}
	o.UpdatedAt = time.Now()
	f.byID[id] = o
	return &o, nil
}

type fakeMailer struct {
	sent []client.Mail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, mail client.Mail) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, mail)
	return nil
}

type fakeObjects struct {
	presigned []string
	deleted   []string
	err       error
}

func (f *fakeObjects) PresignPut(_ context.Context, key string, expires time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.presigned = append(f.presigned, key)
	return "https://bucket.test/" + key + "?expires=" + expires.String(), nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeGoogle struct {
	profiles map[string]*model.GoogleProfile
	codes    map[string]string
}

func (f *fakeGoogle) VerifyIDToken(_ context.Context, raw string) (*model.GoogleProfile, error) {
	p, ok := f.profiles[raw]
	if !ok {
		return nil, errors.New("token signature invalid")
	}
	return p, nil
}

func (f *fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.google.test/auth?state=" + state
}

func (f *fakeGoogle) Exchange(_ context.Context, code string) (string, error) {
	raw, ok := f.codes[code]
	if !ok {
		return "", errors.New("bad code")
	}
	return raw, nil
}

type fakeNotifier struct {
	notified []uuid.UUID
	err      error
}

func (f *fakeNotifier) NotifySupportRequest(_ context.Context, req *model.SupportRequest) error {
	f.notified = append(f.notified, req.ID)
	return f.err
}
