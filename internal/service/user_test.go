package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestProduct(name string, price float64) model.Product {
	return model.Product{ID: uuid.New(), Name: name, Price: price}
}

func TestFindUserByID(t *testing.T) {
	user := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	users := newFakeUsers(user)
	svc := NewUserService(users, newFakeProducts())
	ctx := context.Background()

	got, err := svc.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.FindUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, session.ErrSubjectNotFound)

	users.err = errStoreDown
	_, err = svc.FindUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, session.ErrSubjectNotFound)
}

func TestMeExpandsCartAndFavourites(t *testing.T) {
	sticker := newTestProduct("sticker", 2.5)
	poster := newTestProduct("poster", 10)
	gone := uuid.New()

	user := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	user.Carts = []uuid.UUID{sticker.ID, poster.ID, sticker.ID, gone}
	user.Favourites = []uuid.UUID{poster.ID}

	svc := NewUserService(newFakeUsers(user), newFakeProducts(sticker, poster))
	got, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)

	require.Len(t, got.CartProducts, 3)
	assert.Equal(t, []string{"sticker", "poster", "sticker"}, []string{
		got.CartProducts[0].Name, got.CartProducts[1].Name, got.CartProducts[2].Name,
	})
	require.Len(t, got.FavouriteProducts, 1)
	assert.Equal(t, poster.ID, got.FavouriteProducts[0].ID)

	_, err = svc.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	user := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	users := newFakeUsers(user)
	svc := NewUserService(users, newFakeProducts()).WithHashCost(bcrypt.MinCost)
	ctx := context.Background()

	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "wrong-horse", "brand-new-pass"), ErrPasswordMismatch)
	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "correct-horse", "short"), ErrInvalidInput)
	require.NoError(t, svc.ChangePassword(ctx, user.ID, "correct-horse", "brand-new-pass"))

	stored := users.byID[user.ID].PasswordHash
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("brand-new-pass")))
}

func TestEditProfile(t *testing.T) {
	ada := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	grace := newTestUser(t, "grace@example.com", model.RoleCustomer, true)
	users := newFakeUsers(ada, grace)
	svc := NewUserService(users, newFakeProducts())
	ctx := context.Background()

	req := model.EditProfileRequest{Email: "ADA@lovelace.dev", Firstname: "Augusta", Lastname: "King"}
	require.NoError(t, svc.EditProfile(ctx, ada.ID, req))
	assert.Equal(t, "ada@lovelace.dev", users.byID[ada.ID].Email)
	assert.Equal(t, "Augusta", users.byID[ada.ID].Firstname)

	req.Email = "grace@example.com"
	assert.ErrorIs(t, svc.EditProfile(ctx, ada.ID, req), ErrEmailTaken)

	req.Email = "ada@lovelace.dev"
	req.Firstname = ""
	assert.ErrorIs(t, svc.EditProfile(ctx, ada.ID, req), ErrInvalidInput)
}

func TestCart(t *testing.T) {
	sticker := newTestProduct("sticker", 2.5)
	user := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	users := newFakeUsers(user)
	svc := NewUserService(users, newFakeProducts(sticker))
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, user.ID, sticker.ID))
	require.NoError(t, svc.AddToCart(ctx, user.ID, sticker.ID))
	require.NoError(t, svc.AddToCart(ctx, user.ID, sticker.ID))
	assert.Len(t, users.byID[user.ID].Carts, 3)

	assert.ErrorIs(t, svc.AddToCart(ctx, user.ID, uuid.New()), ErrProductNotFound)
	assert.ErrorIs(t, svc.AddToCart(ctx, uuid.New(), sticker.ID), ErrUserNotFound)

	require.NoError(t, svc.RemoveFromCart(ctx, user.ID, sticker.ID, false))
	assert.Len(t, users.byID[user.ID].Carts, 2)
	require.NoError(t, svc.RemoveFromCart(ctx, user.ID, sticker.ID, true))
	assert.Empty(t, users.byID[user.ID].Carts)

	assert.ErrorIs(t, svc.RemoveFromCart(ctx, user.ID, uuid.New(), true), ErrProductNotFound)
}

func TestCartCapacity(t *testing.T) {
	sticker := newTestProduct("sticker", 2.5)
	user := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	for range maxCartItems {
		user.Carts = append(user.Carts, sticker.ID)
	}
	users := newFakeUsers(user)
	svc := NewUserService(users, newFakeProducts(sticker))

	assert.ErrorIs(t, svc.AddToCart(context.Background(), user.ID, sticker.ID), ErrCartFull)
	assert.Len(t, users.byID[user.ID].Carts, maxCartItems)
}

func TestCartCapacityUnderConcurrentAdds(t *testing.T) {
	sticker := newTestProduct("sticker", 2.5)
	user := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	for range maxCartItems - 2 {
		user.Carts = append(user.Carts, sticker.ID)
	}
	users := newFakeUsers(user)
	svc := NewUserService(users, newFakeProducts(sticker))

	const workers = 10
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.AddToCart(context.Background(), user.ID, sticker.ID)
		}()
	}
	wg.Wait()
	close(errs)

	var ok, full int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrCartFull):
			full++
		default:
			t.Fatalf("AddToCart() unexpected error = %v", err)
		}
	}
	assert.Equal(t, 2, ok)
	assert.Equal(t, workers-2, full)
	assert.Len(t, users.byID[user.ID].Carts, maxCartItems)
}

func TestToggleFavourite(t *testing.T) {
	sticker := newTestProduct("sticker", 2.5)
	user := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	users := newFakeUsers(user)
	svc := NewUserService(users, newFakeProducts(sticker))
	ctx := context.Background()

	added, err := svc.ToggleFavourite(ctx, user.ID, sticker.ID)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []uuid.UUID{sticker.ID}, users.byID[user.ID].Favourites)

	added, err = svc.ToggleFavourite(ctx, user.ID, sticker.ID)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, users.byID[user.ID].Favourites)

	_, err = svc.ToggleFavourite(ctx, user.ID, uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFavouritesCapacity(t *testing.T) {
	sticker := newTestProduct("sticker", 2.5)
	user := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	for range maxFavourites {
		user.Favourites = append(user.Favourites, uuid.New())
	}
	svc := NewUserService(newFakeUsers(user), newFakeProducts(sticker))

	_, err := svc.ToggleFavourite(context.Background(), user.ID, sticker.ID)
	assert.ErrorIs(t, err, ErrFavouritesFull)
}

func TestFullFavouritesCanStillRemove(t *testing.T) {
	sticker := newTestProduct("sticker", 2.5)
	user := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	user.Favourites = append(user.Favourites, sticker.ID)
	for len(user.Favourites) < maxFavourites {
		user.Favourites = append(user.Favourites, uuid.New())
	}
	svc := NewUserService(newFakeUsers(user), newFakeProducts(sticker))

	added, err := svc.ToggleFavourite(context.Background(), user.ID, sticker.ID)
	require.NoError(t, err)
	assert.False(t, added)
}

func TestCustomers(t *testing.T) {
	ada := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	root := newTestUser(t, "root@example.com", model.RoleAdmin, true)
	svc := NewUserService(newFakeUsers(ada, root), newFakeProducts())
	ctx := context.Background()

	page, err := svc.ListCustomers(ctx, model.ListParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, ada.ID, page.Items[0].ID)

	got, err := svc.GetCustomer(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, ada.Email, got.Email)

	_, err = svc.GetCustomer(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
