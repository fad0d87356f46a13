package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateVerificationToken mints the signed token embedded in verification
// emails. It carries the stored verification hash and the subject id and
// expires after 24 hours.
func GenerateVerificationToken(userID uint64, hash string) (string, error) {
	now := time.Now()
	claims := &VerifyClaims{
		UserID: userID,
		Hash:   hash,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(VerificationTokenValidity)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "courtyard",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", fmt.Errorf("failed to sign verification token: %w", err)
	}
	return tokenString, nil
}

// ParseVerificationToken validates a verification token and returns the
// subject id and verification hash it carries.
func ParseVerificationToken(tokenString string) (uint64, string, error) {
	claims := &VerifyClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		return 0, "", fmt.Errorf("failed to parse verification token: %w", err)
	}
	if !token.Valid || claims.Hash == "" {
		return 0, "", errors.New("verification token invalid or expired")
	}

	return claims.UserID, claims.Hash, nil
}
