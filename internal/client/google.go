// Google 로그인 클라이언트
// ID 토큰 검증(go-oidc)과 authorization code 교환(oauth2)을 담당
//
// 환경변수:
//   - GOOGLE_CLIENT_ID
//   - GOOGLE_CLIENT_SECRET
//   - GOOGLE_REDIRECT_URL

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/stcker/backend/internal/config"
	"github.com/stcker/backend/internal/model"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleIssuer  = "https://accounts.google.com"
	googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"
)

var ErrInvalidGoogleToken = errors.New("invalid google token")

type GoogleClient struct {
	verifier *oidc.IDTokenVerifier
	oauth    *oauth2.Config
}

// NewGoogleClient builds the verifier against Google's published keys.
// Keys are fetched lazily on the first verification.
func NewGoogleClient(ctx context.Context, cfg config.GoogleConfig) (*GoogleClient, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}

	keySet := oidc.NewRemoteKeySet(ctx, googleJWKSURL)
	return &GoogleClient{
		verifier: oidc.NewVerifier(googleIssuer, keySet, &oidc.Config{ClientID: cfg.ClientID}),
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

// VerifyIDToken checks signature, issuer, audience and expiry.
func (c *GoogleClient) VerifyIDToken(ctx context.Context, rawIDToken string) (*model.GoogleProfile, error) {
	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}

	var profile model.GoogleProfile
	if err := idToken.Claims(&profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidGoogleToken)
	}
	return &profile, nil
}

func (c *GoogleClient) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the ID token it carries.
func (c *GoogleClient) Exchange(ctx context.Context, code string) (string, error) {
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", fmt.Errorf("%w: no id_token in token response", ErrInvalidGoogleToken)
	}
	return rawIDToken, nil
}
