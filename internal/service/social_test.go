package service

import (
	"context"
	"testing"

	"github.com/stcker/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleLogin(t *testing.T) {
	customer := newTestUser(t, "ada@example.com", model.RoleCustomer, false)
	admin := newTestUser(t, "root@example.com", model.RoleAdmin, true)
	users := newFakeUsers(customer, admin)
	google := &fakeGoogle{profiles: map[string]*model.GoogleProfile{
		"ada-token":     {Email: "Ada@example.com", EmailVerified: true},
		"root-token":    {Email: "root@example.com", EmailVerified: true},
		"unknown-token": {Email: "nobody@example.com", EmailVerified: true},
	}}
	social := NewSocialService(users, google, newTestAuth(users, &fakeMailer{}))
	ctx := context.Background()

	got, err := social.GoogleLogin(ctx, "ada-token", false)
	require.NoError(t, err)
	assert.True(t, got.User.IsEmailVerified)
	assert.True(t, users.byID[customer.ID].IsEmailVerified)

	_, err = social.GoogleLogin(ctx, "ada-token", true)
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = social.GoogleLogin(ctx, "root-token", true)
	assert.NoError(t, err)

	_, err = social.GoogleLogin(ctx, "unknown-token", false)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = social.GoogleLogin(ctx, "forged", false)
	assert.ErrorIs(t, err, ErrInvalidGoogleToken)
}

func TestGoogleLoginRejectsUnverifiedProfile(t *testing.T) {
	victim := newTestUser(t, "victim@example.com", model.RoleAdmin, false)
	users := newFakeUsers(victim)
	google := &fakeGoogle{profiles: map[string]*model.GoogleProfile{
		"unverified-token": {Email: "victim@example.com", EmailVerified: false},
	}}
	social := NewSocialService(users, google, newTestAuth(users, &fakeMailer{}))

	got, err := social.GoogleLogin(context.Background(), "unverified-token", false)
	assert.ErrorIs(t, err, ErrEmailNotVerified)
	assert.Nil(t, got)
	assert.False(t, users.byID[victim.ID].IsEmailVerified)
	assert.NotContains(t, users.calls, "GetUserByEmail")
}

func TestGoogleSignup(t *testing.T) {
	existing := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	users := newFakeUsers(existing)
	google := &fakeGoogle{profiles: map[string]*model.GoogleProfile{
		"new":        {Email: "grace@example.com", EmailVerified: true, GivenName: "Grace", FamilyName: "Hopper"},
		"unverified": {Email: "anon@example.com"},
		"dupe":       {Email: "ada@example.com", EmailVerified: true},
	}}
	social := NewSocialService(users, google, newTestAuth(users, &fakeMailer{}))
	ctx := context.Background()

	got, err := social.GoogleSignup(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.User.Firstname)
	assert.Equal(t, model.RoleCustomer, got.User.Role)
	assert.True(t, got.User.IsEmailVerified)
	assert.Empty(t, got.User.PasswordHash)

	_, err = social.GoogleSignup(ctx, "unverified")
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	_, err = social.GoogleSignup(ctx, "dupe")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestGoogleCodeFlow(t *testing.T) {
	user := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	users := newFakeUsers(user)
	google := &fakeGoogle{
		profiles: map[string]*model.GoogleProfile{"ada-token": {Email: "ada@example.com", EmailVerified: true}},
		codes:    map[string]string{"good-code": "ada-token"},
	}
	social := NewSocialService(users, google, newTestAuth(users, &fakeMailer{}))
	ctx := context.Background()

	url, err := social.GoogleURL("xyz")
	require.NoError(t, err)
	assert.Contains(t, url, "state=xyz")

	got, err := social.GoogleCallback(ctx, "good-code", false)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.User.ID)

	_, err = social.GoogleCallback(ctx, "bad-code", false)
	assert.ErrorIs(t, err, ErrInvalidGoogleToken)
}

func TestGoogleUnavailable(t *testing.T) {
	users := newFakeUsers()
	social := NewSocialService(users, nil, newTestAuth(users, &fakeMailer{}))
	ctx := context.Background()

	_, err := social.GoogleLogin(ctx, "x", false)
	assert.ErrorIs(t, err, ErrGoogleUnavailable)
	_, err = social.GoogleSignup(ctx, "x")
	assert.ErrorIs(t, err, ErrGoogleUnavailable)
	_, err = social.GoogleURL("x")
	assert.ErrorIs(t, err, ErrGoogleUnavailable)
	_, err = social.GoogleCallback(ctx, "x", false)
	assert.ErrorIs(t, err, ErrGoogleUnavailable)
}
