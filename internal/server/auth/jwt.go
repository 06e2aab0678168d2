// Package auth issues and verifies the HS256 access tokens handed to clients.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/diarify/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the numeric user id under "userID".
type Claims struct {
	UserID int64 `json:"userID"`
	jwt.RegisteredClaims
}

// now is replaced in tests.
var now = time.Now

// GenerateToken signs a token for userID that expires after validityDuration.
func GenerateToken(userID int64, secretKey []byte, validityDuration time.Duration) (string, time.Time, error) {
	issued := now()
	expires := issued.Add(validityDuration)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(issued),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expires, nil
}

// GetUserIDFromToken verifies the signature and expiry of tokenString.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// yields common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID <= 0 {
		return 0, common.ErrInvalidToken
	}

	return claims.UserID, nil
}
