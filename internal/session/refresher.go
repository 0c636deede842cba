// Package session decides, per request, what the access/refresh cookie pair
// means: anonymous, authenticated, silently renewed, or to be cleared.
//
// Decide never fails the request. Whatever happens it returns an identity
// (possibly nil) and the cookie writes the transport must apply.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/token"
	"go.uber.org/zap"
)

// ErrSubjectNotFound is returned by a UserFinder when the id no longer
// resolves to a user.
var ErrSubjectNotFound = errors.New("subject not found")

type UserFinder interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type CookieAction int

const (
	SetAccess CookieAction = iota + 1
	SetRefresh
	ClearAll
)

// CookieOp is one cookie write. Value is empty for ClearAll.
type CookieOp struct {
	Action CookieAction
	Value  string
}

type Decision struct {
	Identity *model.Identity
	Cookies  []CookieOp
}

type Refresher struct {
	tokens *token.Manager
	users  UserFinder
	logger *zap.Logger
}

func NewRefresher(tokens *token.Manager, users UserFinder, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{tokens: tokens, users: users, logger: logger}
}

// Decide evaluates the cookie pair. The first matching rule wins:
//
//	both absent              anonymous, no writes
//	access ok, refresh ok    access identity; rotate refresh when it expires no later than access
//	refresh ok               identity from the user record; mint a new access token
//	access ok                access identity, then clear both cookies
//	otherwise                clear both cookies
func (r *Refresher) Decide(ctx context.Context, accessToken, refreshToken string) Decision {
	if accessToken == "" && refreshToken == "" {
		return Decision{}
	}

	access, accessErr := r.tokens.ParseAccess(accessToken)
	refresh, refreshErr := r.tokens.ParseRefresh(refreshToken)

	if accessErr == nil && refreshErr == nil {
		decision := Decision{Identity: access.Identity()}
		if !refresh.ExpiresAt.After(access.ExpiresAt) {
			if user := r.lookup(ctx, refresh.UserID); user != nil {
				if signed, _, err := r.tokens.IssueRefresh(user.ID); err != nil {
					r.logger.Error("failed to issue refresh token", zap.Error(err))
				} else {
					decision.Cookies = append(decision.Cookies, CookieOp{Action: SetRefresh, Value: signed})
				}
			}
		}
		return decision
	}

	if refreshErr == nil {
		if user := r.lookup(ctx, refresh.UserID); user != nil {
			signed, _, err := r.tokens.IssueAccess(user)
			if err == nil {
				return Decision{
					Identity: user.Identity(),
					Cookies:  []CookieOp{{Action: SetAccess, Value: signed}},
				}
			}
			r.logger.Error("failed to issue access token", zap.Error(err))
		}
	}

	decision := Decision{Cookies: []CookieOp{{Action: ClearAll}}}
	if accessErr == nil {
		decision.Identity = access.Identity()
	}
	return decision
}

// lookup treats every failure as "not found"; store errors are logged.
func (r *Refresher) lookup(ctx context.Context, id uuid.UUID) *model.User {
	user, err := r.users.FindUserByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrSubjectNotFound) {
			r.logger.Warn("session subject lookup failed",
				zap.String("user_id", id.String()),
				zap.Error(err))
		}
		return nil
	}
	return user
}
