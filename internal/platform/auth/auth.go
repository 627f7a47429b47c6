// Package auth implements the practitioner login. The clinic is single-user:
// one configured password is exchanged for a signed bearer token, and the
// middleware verifies that token on every API request.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const tokenSubject = "practitioner"

// TokenTTL is how long an issued login token stays valid.
const TokenTTL = 12 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// IssueToken signs a practitioner session token.
func IssueToken(secret string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature, expiry, and subject.
func VerifyToken(secret, raw string) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	if claims.Subject != tokenSubject {
		return ErrInvalidToken
	}
	return nil
}

// Middleware rejects requests without a valid bearer token.
func Middleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			if err := VerifyToken(secret, raw); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			return next(c)
		}
	}
}

// LoginHandler exchanges the practitioner password for a token.
func LoginHandler(secret, password string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body struct {
			Password string `json:"password"`
		}
		if err := c.Bind(&body); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if subtle.ConstantTimeCompare([]byte(body.Password), []byte(password)) != 1 {
			return echo.NewHTTPError(http.StatusUnauthorized, "wrong password")
		}
		token, err := IssueToken(secret, time.Now())
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token")
		}
		return c.JSON(http.StatusOK, map[string]string{
			"token":      token,
			"token_type": "Bearer",
		})
	}
}
