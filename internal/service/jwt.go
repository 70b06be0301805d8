package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

const jwtTTL = 24 * time.Hour

// InitJWT sets the HMAC secret used to sign and verify session tokens.
func InitJWT(secret string) {
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
}

// GenerateJWT issues a session token whose subject is the account.
func GenerateJWT(account string) (string, error) {
	if account == "" {
		return "", errors.New("empty account")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": account,
		"exp": now.Add(jwtTTL).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT verifies tokenString and returns the account it was issued to.
func ParseJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	}, jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	account, ok := claims["sub"].(string)
	if !ok || account == "" {
		return "", errors.New("sub not found")
	}

	return account, nil
}
