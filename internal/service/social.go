package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stcker/backend/internal/db"
	"github.com/stcker/backend/internal/model"
)

// SocialService signs users in with Google. google may be nil when the
// deployment has no Google client configured.
type SocialService struct {
	users  UserStore
	google GoogleAuth
	auth   *AuthService
}

func NewSocialService(users UserStore, google GoogleAuth, auth *AuthService) *SocialService {
	return &SocialService{users: users, google: google, auth: auth}
}

func (s *SocialService) GoogleLogin(ctx context.Context, tokenID string, asAdmin bool) (*SignedIn, error) {
	profile, err := s.verify(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	// Google이 소유를 확인하지 않은 주소로는 기존 계정에 연결하지 않음
	if !profile.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(profile.Email))
	if err != nil {
		return nil, mapUserErr(err)
	}
	if asAdmin && user.Role != model.RoleAdmin {
		return nil, ErrNotAdmin
	}

	if !user.IsEmailVerified {
		if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
			return nil, mapUserErr(err)
		}
		user.IsEmailVerified = true
	}

	return s.auth.Issue(user)
}

func (s *SocialService) GoogleSignup(ctx context.Context, tokenID string) (*SignedIn, error) {
	profile, err := s.verify(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if !profile.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	user, err := s.users.CreateUser(ctx, &model.User{
		ID:              uuid.New(),
		Email:           normalizeEmail(profile.Email),
		Firstname:       strings.TrimSpace(profile.GivenName),
		Lastname:        strings.TrimSpace(profile.FamilyName),
		Role:            model.RoleCustomer,
		IsEmailVerified: true,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.auth.Issue(user)
}

func (s *SocialService) GoogleURL(state string) (string, error) {
	if s.google == nil {
		return "", ErrGoogleUnavailable
	}
	return s.google.AuthCodeURL(state), nil
}

// GoogleCallback completes the authorization-code flow and signs in with
// the ID token Google returned.
func (s *SocialService) GoogleCallback(ctx context.Context, code string, asAdmin bool) (*SignedIn, error) {
	if s.google == nil {
		return nil, ErrGoogleUnavailable
	}
	rawIDToken, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	return s.GoogleLogin(ctx, rawIDToken, asAdmin)
}

func (s *SocialService) verify(ctx context.Context, tokenID string) (*model.GoogleProfile, error) {
	if s.google == nil {
		return nil, ErrGoogleUnavailable
	}
	profile, err := s.google.VerifyIDToken(ctx, tokenID)
	if err != nil {
		if errors.Is(err, ErrInvalidGoogleToken) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	return profile, nil
}
