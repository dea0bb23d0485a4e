package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"magicResume/internal/api/middleware"
	"magicResume/internal/auth"
)

// AuthHandler 处理所有者登录。
type AuthHandler struct {
	authService           *auth.AuthService
	limiter               rateCounter
	loginRateLimitPerHour int
}

// NewAuthHandler 构造认证处理器。limiter 为 nil 时不做登录限流。
func NewAuthHandler(authService *auth.AuthService, limiter rateCounter, loginRateLimitPerHour int) *AuthHandler {
	return &AuthHandler{
		authService:           authService,
		limiter:               limiter,
		loginRateLimitPerHour: loginRateLimitPerHour,
	}
}

type loginRequest struct {
	Password string `json:"password" binding:"required,max=72"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login 校验密码并签发访问令牌。未启用登录时返回 404。
func (h *AuthHandler) Login(c *gin.Context) {
	if h.authService == nil {
		NotFound(c, "login is not enabled")
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	// 速率限制：每 IP 每小时
	if h.limiter != nil && h.loginRateLimitPerHour > 0 {
		rateKey := "rate:login:" + c.ClientIP() + ":" + time.Now().UTC().Format("2006010215")
		count, err := countAttempt(ctx, h.limiter, rateKey, time.Hour)
		if err != nil {
			logger.Warn("login rate counter unavailable", slog.Any("error", err))
			count = 0
		}
		if count > int64(h.loginRateLimitPerHour) {
			TooManyRequests(c)
			return
		}
	}

	token, err := h.authService.Login(req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		logger.Info("login failed: password mismatch")
		Unauthorized(c)
		return
	}
	if err != nil {
		logger.Error("generate access token failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		AccessToken: token,
		ExpiresIn:   int64(h.authService.AccessTokenTTL().Seconds()),
	})
}
