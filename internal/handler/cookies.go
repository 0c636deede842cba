package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/stcker/backend/internal/config"
	"github.com/stcker/backend/internal/service"
	"github.com/stcker/backend/internal/session"
)

func setCookie(c *gin.Context, cfg config.CookieConfig, name, value string, maxAge int) {
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(name, value, maxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func setSessionCookies(c *gin.Context, cfg config.CookieConfig, signed *service.SignedIn) {
	setCookie(c, cfg, cfg.AccessName, signed.AccessToken, cfg.AccessMaxAge)
	setCookie(c, cfg, cfg.RefreshName, signed.RefreshToken, cfg.RefreshMaxAge)
}

func clearSessionCookies(c *gin.Context, cfg config.CookieConfig) {
	setCookie(c, cfg, cfg.AccessName, "", -1)
	setCookie(c, cfg, cfg.RefreshName, "", -1)
}

func applyCookieOp(c *gin.Context, cfg config.CookieConfig, op session.CookieOp) {
	switch op.Action {
	case session.SetAccess:
		setCookie(c, cfg, cfg.AccessName, op.Value, cfg.AccessMaxAge)
	case session.SetRefresh:
		setCookie(c, cfg, cfg.RefreshName, op.Value, cfg.RefreshMaxAge)
	case session.ClearAll:
		clearSessionCookies(c, cfg)
	}
}
