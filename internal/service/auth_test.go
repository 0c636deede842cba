package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stcker/backend/internal/config"
	"github.com/stcker/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() config.Config {
	return config.Config{
		Client: config.ClientConfig{CustomerOrigin: "https://stcker.com/"},
		Mail: config.MailConfig{
			SenderAddress: "noreply@stcker.com",
			AdminAddress:  "admin@stcker.com",
			LogoURL:       "https://cdn.stcker.com/logo.png",
		},
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestUser(t *testing.T, email string, role model.Role, verified bool) *model.User {
	return &model.User{
		ID:              uuid.New(),
		Email:           email,
		Firstname:       "Ada",
		Lastname:        "Lovelace",
		PasswordHash:    mustHash(t, "correct-horse"),
		Role:            role,
		IsEmailVerified: verified,
	}
}

func newTestAuth(users *fakeUsers, mailer *fakeMailer) *AuthService {
	return NewAuthService(users, newTestTokens(), mailer, testConfig(), nil).WithHashCost(bcrypt.MinCost)
}

func TestLogin(t *testing.T) {
	customer := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	admin := newTestUser(t, "root@example.com", model.RoleAdmin, true)
	pending := newTestUser(t, "new@example.com", model.RoleCustomer, false)
	users := newFakeUsers(customer, admin, pending)
	auth := newTestAuth(users, &fakeMailer{})
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		asAdmin  bool
		wantErr  error
	}{
		{name: "customer", email: "Ada@Example.com ", password: "correct-horse"},
		{name: "admin as admin", email: "root@example.com", password: "correct-horse", asAdmin: true},
		{name: "unknown email", email: "nobody@example.com", password: "correct-horse", wantErr: ErrInvalidCredentials},
		{name: "wrong password", email: "ada@example.com", password: "wrong-horse", wantErr: ErrInvalidCredentials},
		{name: "unverified", email: "new@example.com", password: "correct-horse", wantErr: ErrEmailNotVerified},
		{name: "customer as admin", email: "ada@example.com", password: "correct-horse", asAdmin: true, wantErr: ErrNotAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.Login(ctx, tt.email, tt.password, tt.asAdmin)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.AccessToken)
			assert.NotEmpty(t, got.RefreshToken)
			assert.NotEqual(t, got.AccessToken, got.RefreshToken)
		})
	}
}

func TestLoginPasswordlessAccount(t *testing.T) {
	user := newTestUser(t, "google@example.com", model.RoleCustomer, true)
	user.PasswordHash = ""
	auth := newTestAuth(newFakeUsers(user), &fakeMailer{})

	_, err := auth.Login(context.Background(), "google@example.com", "", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginIssuesParseableTokens(t *testing.T) {
	user := newTestUser(t, "ada@example.com", model.RoleAdmin, true)
	tokens := newTestTokens()
	auth := NewAuthService(newFakeUsers(user), tokens, &fakeMailer{}, testConfig(), nil)

	got, err := auth.Login(context.Background(), "ada@example.com", "correct-horse", true)
	require.NoError(t, err)

	access, err := tokens.ParseAccess(got.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, access.UserID)
	assert.Equal(t, model.RoleAdmin, access.Role)

	refresh, err := tokens.ParseRefresh(got.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refresh.UserID)
}

func TestRegister(t *testing.T) {
	users := newFakeUsers()
	mailer := &fakeMailer{}
	auth := newTestAuth(users, mailer)
	ctx := context.Background()

	req := model.RegisterRequest{
		Email:     "New@Example.com",
		Password:  "long-enough",
		Firstname: " Grace ",
		Lastname:  "Hopper",
	}
	require.NoError(t, auth.Register(ctx, req))

	created, err := users.GetUserByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Grace", created.Firstname)
	assert.Equal(t, model.RoleCustomer, created.Role)
	assert.False(t, created.IsEmailVerified)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("long-enough")))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "new@example.com", mailer.sent[0].To)
	assert.Equal(t, "Stcker - Please verify your email address", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, "https://stcker.com/verify-email/")

	assert.ErrorIs(t, auth.Register(ctx, req), ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	auth := newTestAuth(newFakeUsers(), &fakeMailer{})
	ctx := context.Background()

	cases := []model.RegisterRequest{
		{Email: "a@b.c", Password: "short", Firstname: "A", Lastname: "B"},
		{Email: "a@b.c", Password: strings.Repeat("x", 129), Firstname: "A", Lastname: "B"},
		{Email: "a@b.c", Password: "long-enough", Firstname: "", Lastname: "B"},
		{Email: "a@b.c", Password: "long-enough", Firstname: "A", Lastname: strings.Repeat("b", 51)},
		{Email: "", Password: "long-enough", Firstname: "A", Lastname: "B"},
	}
	for _, req := range cases {
		assert.ErrorIs(t, auth.Register(ctx, req), ErrInvalidInput)
	}
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	users := newFakeUsers()
	auth := newTestAuth(users, &fakeMailer{err: assert.AnError})

	err := auth.Register(context.Background(), model.RegisterRequest{
		Email: "a@b.c", Password: "long-enough", Firstname: "A", Lastname: "B",
	})
	require.NoError(t, err)
	assert.Len(t, users.byID, 1)
}

func TestVerifyEmail(t *testing.T) {
	user := newTestUser(t, "ada@example.com", model.RoleCustomer, false)
	users := newFakeUsers(user)
	tokens := newTestTokens()
	auth := NewAuthService(users, tokens, &fakeMailer{}, testConfig(), nil)
	ctx := context.Background()

	_, err := auth.VerifyEmail(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// refresh tokens are signed with another secret
	refresh, _, err := tokens.IssueRefresh(user.ID)
	require.NoError(t, err)
	_, err = auth.VerifyEmail(ctx, refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	stranger, err := tokens.IssueAction(uuid.New())
	require.NoError(t, err)
	_, err = auth.VerifyEmail(ctx, stranger)
	assert.ErrorIs(t, err, ErrUserNotFound)

	action, err := tokens.IssueAction(user.ID)
	require.NoError(t, err)
	got, err := auth.VerifyEmail(ctx, action)
	require.NoError(t, err)
	assert.True(t, got.User.IsEmailVerified)
	assert.True(t, users.byID[user.ID].IsEmailVerified)

	_, err = auth.VerifyEmail(ctx, action)
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestResendVerification(t *testing.T) {
	pending := newTestUser(t, "new@example.com", model.RoleCustomer, false)
	verified := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	mailer := &fakeMailer{}
	auth := newTestAuth(newFakeUsers(pending, verified), mailer)
	ctx := context.Background()

	require.NoError(t, auth.ResendVerification(ctx, "new@example.com"))
	assert.Len(t, mailer.sent, 1)
	assert.ErrorIs(t, auth.ResendVerification(ctx, "ada@example.com"), ErrAlreadyVerified)
	assert.ErrorIs(t, auth.ResendVerification(ctx, "nobody@example.com"), ErrUserNotFound)
}

func TestPasswordResetFlow(t *testing.T) {
	user := newTestUser(t, "ada@example.com", model.RoleCustomer, true)
	users := newFakeUsers(user)
	mailer := &fakeMailer{}
	tokens := newTestTokens()
	auth := NewAuthService(users, tokens, mailer, testConfig(), nil).WithHashCost(bcrypt.MinCost)
	ctx := context.Background()

	assert.ErrorIs(t, auth.RequestPasswordReset(ctx, "nobody@example.com"), ErrUserNotFound)
	require.NoError(t, auth.RequestPasswordReset(ctx, "ada@example.com"))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Reset your Stcker Password", mailer.sent[0].Subject)

	action, err := tokens.IssueAction(user.ID)
	require.NoError(t, err)
	assert.Contains(t, mailer.sent[0].HTML, "https://stcker.com/password-reset/")

	_, err = auth.ResetPassword(ctx, action, "short")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = auth.ResetPassword(ctx, "garbage", "brand-new-password")
	assert.ErrorIs(t, err, ErrInvalidToken)

	got, err := auth.ResetPassword(ctx, action, "brand-new-password")
	require.NoError(t, err)
	assert.NotEmpty(t, got.AccessToken)

	_, err = auth.Login(ctx, "ada@example.com", "brand-new-password", false)
	assert.NoError(t, err)
	_, err = auth.Login(ctx, "ada@example.com", "correct-horse", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginStoreError(t *testing.T) {
	users := newFakeUsers()
	users.err = errStoreDown
	auth := newTestAuth(users, &fakeMailer{})

	_, err := auth.Login(context.Background(), "a@b.c", "whatever-pass", false)
	assert.ErrorIs(t, err, errStoreDown)
}
