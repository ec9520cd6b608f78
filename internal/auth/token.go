package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ResetTokenTTL is how long a password-reset token stays valid.
const ResetTokenTTL = 10 * time.Minute

// ErrInvalidResetToken is returned for any token that fails to resolve:
// malformed, tampered, expired, or wrong signature. Callers treat it
// identically to "not found" so nothing leaks about registered emails.
var ErrInvalidResetToken = errors.New("invalid reset token")

// ResetTokens issues and resolves signed, stateless password-reset tokens.
// Tokens carry the user's reset-token version; bumping the version on a
// successful reset invalidates every outstanding token without a
// server-side revocation list.
type ResetTokens struct {
	secret []byte
}

// NewResetTokens creates a token codec bound to a signing secret.
func NewResetTokens(secret string) *ResetTokens {
	return &ResetTokens{secret: []byte(secret)}
}

// Issue creates a reset token for the user at its current token version.
func (r *ResetTokens) Issue(userID uint, version uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"ver": version,
		"jti": uuid.NewString(),
		"exp": time.Now().Add(ResetTokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(r.secret)
}

// Resolve validates a token and returns the user ID and token version it
// carries. Any decode error returns ErrInvalidResetToken.
func (r *ResetTokens) Resolve(tokenString string) (uint, uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, 0, ErrInvalidResetToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, 0, ErrInvalidResetToken
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, 0, ErrInvalidResetToken
	}
	ver, ok := claims["ver"].(float64)
	if !ok {
		return 0, 0, ErrInvalidResetToken
	}

	return uint(sub), uint(ver), nil
}
