package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stcker/backend/internal/client"
	"github.com/stcker/backend/internal/config"
	"github.com/stcker/backend/internal/db"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/template"
	"github.com/stcker/backend/internal/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	maxNameLength     = 50
	maxEmailLength    = 255
)

// SignedIn is a user together with a freshly minted cookie pair.
type SignedIn struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	users    UserStore
	tokens   *token.Manager
	mailer   client.Mailer
	mailCfg  config.MailConfig
	origin   string
	hashCost int
	logger   *zap.Logger
}

func NewAuthService(users UserStore, tokens *token.Manager, mailer client.Mailer, cfg config.Config, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		mailCfg:  cfg.Mail,
		origin:   strings.TrimRight(cfg.Client.CustomerOrigin, "/"),
		hashCost: bcrypt.DefaultCost,
		logger:   logger,
	}
}

// WithHashCost overrides the bcrypt cost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

func (s *AuthService) Login(ctx context.Context, email, password string, asAdmin bool) (*SignedIn, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}
	if asAdmin && user.Role != model.RoleAdmin {
		return nil, ErrNotAdmin
	}

	return s.Issue(user)
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) error {
	email := normalizeEmail(req.Email)
	firstname := strings.TrimSpace(req.Firstname)
	lastname := strings.TrimSpace(req.Lastname)
	if err := validateRegistration(email, req.Password, firstname, lastname); err != nil {
		return err
	}

	hash, err := hashPassword(req.Password, s.hashCost)
	if err != nil {
		return err
	}

	user, err := s.users.CreateUser(ctx, &model.User{
		ID:           uuid.New(),
		Email:        email,
		Firstname:    firstname,
		Lastname:     lastname,
		PasswordHash: hash,
		Role:         model.RoleCustomer,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}

	// The account exists either way; the user can ask for another mail.
	if err := s.sendVerification(ctx, user); err != nil {
		s.logger.Error("failed to send verification mail",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}
	return nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, actionToken string) (*SignedIn, error) {
	user, err := s.userFromActionToken(ctx, actionToken)
	if err != nil {
		return nil, err
	}
	if user.IsEmailVerified {
		return nil, ErrAlreadyVerified
	}

	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, mapUserErr(err)
	}
	user.IsEmailVerified = true

	return s.Issue(user)
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return mapUserErr(err)
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}
	return s.sendVerification(ctx, user)
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return mapUserErr(err)
	}

	actionToken, err := s.tokens.IssueAction(user.ID)
	if err != nil {
		return err
	}

	html, err := template.Render(template.PasswordReset, template.MailData{
		Firstname:   user.Firstname,
		Lastname:    user.Lastname,
		Email:       user.Email,
		Link:        s.origin + "/password-reset/",
		Token:       actionToken,
		Logo:        s.mailCfg.LogoURL,
		SupportLink: s.origin + "/support/",
	})
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, client.Mail{
		From:    s.mailCfg.SenderAddress,
		To:      user.Email,
		Subject: "Reset your Stcker Password",
		HTML:    html,
	})
}

func (s *AuthService) ResetPassword(ctx context.Context, actionToken, password string) (*SignedIn, error) {
	if !validPassword(password) {
		return nil, fmt.Errorf("%w: password must be %d to %d characters", ErrInvalidInput, minPasswordLength, maxPasswordLength)
	}

	user, err := s.userFromActionToken(ctx, actionToken)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(password, s.hashCost)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, mapUserErr(err)
	}
	user.PasswordHash = hash

	return s.Issue(user)
}

// Issue mints a fresh access/refresh pair for user.
func (s *AuthService) Issue(user *model.User) (*SignedIn, error) {
	access, _, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	return &SignedIn{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) userFromActionToken(ctx context.Context, actionToken string) (*model.User, error) {
	claims, err := s.tokens.ParseAction(actionToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *model.User) error {
	actionToken, err := s.tokens.IssueAction(user.ID)
	if err != nil {
		return err
	}

	html, err := template.Render(template.VerifyEmail, template.MailData{
		Firstname:   user.Firstname,
		Lastname:    user.Lastname,
		Email:       user.Email,
		Link:        s.origin + "/verify-email/" + actionToken,
		Logo:        s.mailCfg.LogoURL,
		SupportLink: s.origin + "/support/",
	})
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, client.Mail{
		From:    s.mailCfg.SenderAddress,
		To:      user.Email,
		Subject: "Stcker - Please verify your email address",
		HTML:    html,
	})
}

func validateRegistration(email, password, firstname, lastname string) error {
	if email == "" || len(email) > maxEmailLength {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !validPassword(password) {
		return fmt.Errorf("%w: password must be %d to %d characters", ErrInvalidInput, minPasswordLength, maxPasswordLength)
	}
	if firstname == "" || len(firstname) > maxNameLength || lastname == "" || len(lastname) > maxNameLength {
		return fmt.Errorf("%w: names must be 1 to %d characters", ErrInvalidInput, maxNameLength)
	}
	return nil
}

func validPassword(password string) bool {
	return len(password) >= minPasswordLength && len(password) <= maxPasswordLength
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func mapUserErr(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
