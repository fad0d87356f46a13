package security

import (
	"courtyard/internal/api/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims is the payload carried by session tokens.
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

// VerifyClaims is the payload of email-verification tokens: the stored
// verification hash plus the subject id, valid for 24 hours.
type VerifyClaims struct {
	UserID uint64 `json:"user_id"`
	Hash   string `json:"hash"`
	jwt.RegisteredClaims
}

const VerificationTokenValidity = 24 * time.Hour

func jwtSecret() []byte {
	if config.Cfg != nil && config.Cfg.Auth.JWTSecret != "" {
		return []byte(config.Cfg.Auth.JWTSecret)
	}
	return []byte("courtyard")
}

func tokenExpiry() time.Duration {
	if config.Cfg != nil && config.Cfg.Auth.TokenExpiryMinutes > 0 {
		return time.Duration(config.Cfg.Auth.TokenExpiryMinutes) * time.Minute
	}
	return 1440 * time.Minute
}
