package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stcker/backend/internal/config"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/ratelimit"
	"github.com/stcker/backend/internal/session"
)

// SessionMiddleware evaluates the cookie pair on every request, applies the
// resulting cookie writes and forwards the identity through the request
// context. It never aborts.
func SessionMiddleware(refresher *session.Refresher, cookies config.CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken, _ := c.Cookie(cookies.AccessName)
		refreshToken, _ := c.Cookie(cookies.RefreshName)

		decision := refresher.Decide(c.Request.Context(), accessToken, refreshToken)
		for _, op := range decision.Cookies {
			applyCookieOp(c, cookies, op)
		}
		if decision.Identity != nil {
			c.Request = c.Request.WithContext(session.WithIdentity(c.Request.Context(), decision.Identity))
		}

		c.Next()
	}
}

func GetIdentity(c *gin.Context) *model.Identity {
	return session.IdentityFromContext(c.Request.Context())
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetIdentity(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Unauthorized"})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil || identity.Role != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, model.ErrorResponse{Error: "Forbidden"})
			return
		}
		c.Next()
	}
}

// RateLimit guards one operation. Callers are keyed by identity when the
// session middleware attached one, otherwise by client address.
func RateLimit(limiter *ratelimit.Limiter, operation string, limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := limiter.Allow(c.Request.Context(), operation, limit, GetIdentity(c), c.ClientIP())
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CORSMiddleware allows credentialed requests from allowedOrigins and, when
// allowedDomain is set, from any https origin on that domain or its subdomains.
func CORSMiddleware(allowedOrigins []string, allowedDomain string) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimRight(strings.TrimSpace(origin), "/")
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	allowed := func(origin string) bool {
		if _, ok := originMap[origin]; ok {
			return true
		}
		return allowedDomain != "" && onDomain(origin, allowedDomain)
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func onDomain(origin, domain string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Scheme != "https" {
		return false
	}
	domain = strings.TrimPrefix(domain, ".")
	host := u.Hostname()
	return host == domain || strings.HasSuffix(host, "."+domain)
}
