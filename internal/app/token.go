package app

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidSubject = errors.New("token subject is not a user id")

// NewAccessToken signs a bearer token for userId. Tokens are issued by the
// identity service in production; this is used by bookingctl and the tests.
func NewAccessToken(secret string, userId int, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userId),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseAccessToken(secret, raw string) (int, error) {
	if secret == "" {
		return 0, errors.New("jwt secret is not configured")
	}

	var claims jwt.RegisteredClaims

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}

	userId, err := strconv.Atoi(claims.Subject)
	if err != nil || userId < 1 {
		return 0, errInvalidSubject
	}

	return userId, nil
}
