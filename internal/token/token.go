// Package token signs and verifies the HS256 credentials used by the
// session cookies and by emailed action links.
//
// Each kind has its own secret, so a token of one kind never verifies as
// another.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stcker/backend/internal/model"
)

const (
	AccessTTL  = time.Hour
	RefreshTTL = 24 * time.Hour
	ActionTTL  = time.Hour
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMisconfigured = errors.New("token manager config invalid")
)

type Config struct {
	AccessSecret  string
	RefreshSecret string
	ActionSecret  string
}

type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	actionSecret  []byte
	now           func() time.Time
}

type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type subjectClaims struct {
	jwt.RegisteredClaims
}

// AccessClaims is a decoded access token.
type AccessClaims struct {
	UserID    uuid.UUID
	Email     string
	Role      model.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (c *AccessClaims) Identity() *model.Identity {
	return &model.Identity{ID: c.UserID, Email: c.Email, Role: c.Role}
}

// SubjectClaims is a decoded refresh or action token.
type SubjectClaims struct {
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" || cfg.ActionSecret == "" {
		return nil, fmt.Errorf("%w: all secrets are required", ErrMisconfigured)
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, fmt.Errorf("%w: access and refresh secrets must differ", ErrMisconfigured)
	}
	// action tokens must never verify as session tokens
	if cfg.ActionSecret == cfg.AccessSecret || cfg.ActionSecret == cfg.RefreshSecret {
		return nil, fmt.Errorf("%w: action secret must differ from the session secrets", ErrMisconfigured)
	}
	return &Manager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		actionSecret:  []byte(cfg.ActionSecret),
		now:           time.Now,
	}, nil
}

// WithClock returns a copy of m that reads time from now. Used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	cp := *m
	cp.now = now
	return &cp
}

func (m *Manager) IssueAccess(user *model.User) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(AccessTTL)
	claims := accessClaims{
		Email: user.Email,
		Role:  user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.accessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m *Manager) IssueRefresh(userID uuid.UUID) (string, time.Time, error) {
	return m.issueSubject(userID, RefreshTTL, m.refreshSecret)
}

func (m *Manager) IssueAction(userID uuid.UUID) (string, error) {
	signed, _, err := m.issueSubject(userID, ActionTTL, m.actionSecret)
	return signed, err
}

func (m *Manager) ParseAccess(tokenStr string) (*AccessClaims, error) {
	claims := &accessClaims{}
	if err := m.parse(tokenStr, claims, m.accessSecret); err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &AccessClaims{
		UserID:    userID,
		Email:     claims.Email,
		Role:      role,
		IssuedAt:  numericTime(claims.IssuedAt),
		ExpiresAt: numericTime(claims.ExpiresAt),
	}, nil
}

func (m *Manager) ParseRefresh(tokenStr string) (*SubjectClaims, error) {
	return m.parseSubject(tokenStr, m.refreshSecret)
}

func (m *Manager) ParseAction(tokenStr string) (*SubjectClaims, error) {
	return m.parseSubject(tokenStr, m.actionSecret)
}

func (m *Manager) issueSubject(userID uuid.UUID, ttl time.Duration, secret []byte) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(ttl)
	claims := subjectClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m *Manager) parseSubject(tokenStr string, secret []byte) (*SubjectClaims, error) {
	claims := &subjectClaims{}
	if err := m.parse(tokenStr, claims, secret); err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &SubjectClaims{
		UserID:    userID,
		IssuedAt:  numericTime(claims.IssuedAt),
		ExpiresAt: numericTime(claims.ExpiresAt),
	}, nil
}

func (m *Manager) parse(tokenStr string, claims jwt.Claims, secret []byte) error {
	if tokenStr == "" {
		return ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
