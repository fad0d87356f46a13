package security

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken mints a session token for the given user with the configured
// expiry (1440 minutes unless overridden).
func GenerateToken(userID uint64) (string, error) {
	return GenerateTokenWithExpiry(userID, tokenExpiry())
}

// GenerateTokenWithExpiry mints a session token with an explicit lifetime.
func GenerateTokenWithExpiry(userID uint64, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "courtyard",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken verifies the signature and expiry of a session token and
// returns its claims. The decoded subject is what the websocket handler
// compares against the claimed participant id.
func ValidateToken(tokenString string) (*UserClaims, error) {
	return validateTokenAt(tokenString, nil)
}

// ValidateTokenAt is ValidateToken evaluated at an explicit instant.
func ValidateTokenAt(tokenString string, at time.Time) (*UserClaims, error) {
	return validateTokenAt(tokenString, func() time.Time { return at })
}

func validateTokenAt(tokenString string, timeFunc func() time.Time) (*UserClaims, error) {
	claims := &UserClaims{}

	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if timeFunc != nil {
		opts = append(opts, jwt.WithTimeFunc(timeFunc))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	}, opts...)

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token invalid or expired")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}

// ExtractSignature returns the signature part of a token string, used as
// the redis blacklist key on logout.
func ExtractSignature(tokenString string) (string, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return "", errors.New("malformed token")
	}
	return parts[2], nil
}
