package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// OwnerSubject 是唯一所有者的 JWT subject。
const OwnerSubject = "owner"

var (
	// ErrInvalidCredentials 表示密码不匹配。
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken 表示令牌无法通过校验。
	ErrInvalidToken = errors.New("invalid token")
)

// AuthService 负责所有者登录校验与访问令牌签发。
type AuthService struct {
	passwordHash   string
	secret         []byte
	accessTokenTTL time.Duration
	now            func() time.Time
}

// TokenClaims 表示 JWT 中的业务字段。
type TokenClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// NewAuthService 使用 bcrypt 哈希与 HMAC 密钥构造服务实例。
func NewAuthService(passwordHash, secret string, accessTTL time.Duration) (*AuthService, error) {
	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if accessTTL <= 0 {
		return nil, errors.New("access token ttl must be positive")
	}

	return &AuthService{
		passwordHash:   passwordHash,
		secret:         []byte(secret),
		accessTokenTTL: accessTTL,
		now:            time.Now,
	}, nil
}

// Login 校验密码并返回新的访问令牌。
func (s *AuthService) Login(password string) (string, error) {
	if !CheckPasswordHash(password, s.passwordHash) {
		return "", ErrInvalidCredentials
	}
	return s.GenerateAccessToken()
}

// GenerateAccessToken 为所有者签发访问令牌。
func (s *AuthService) GenerateAccessToken() (string, error) {
	now := s.now()
	claims := TokenClaims{
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   OwnerSubject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken 解析并验证 JWT。
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token string is empty", ErrInvalidToken)
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.TokenType != "access" || claims.Subject != OwnerSubject {
		return nil, fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}

	return claims, nil
}

// AccessTokenTTL 暴露访问令牌有效期。
func (s *AuthService) AccessTokenTTL() time.Duration {
	return s.accessTokenTTL
}
