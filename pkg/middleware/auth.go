// Package middleware holds fiber middleware shared by the HTTP routes.
package middleware

import (
	"errors"

	"github.com/amirasaad/eaglebank/pkg/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserContextKey is the fiber Locals key holding the verified *jwt.Token.
const UserContextKey = "user"

// JwtProtected rejects requests without a valid HS256 bearer token and stores
// the verified token under UserContextKey.
func JwtProtected(cfg config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(cfg.Secret),
		},
		ContextKey:   UserContextKey,
		ErrorHandler: jwtError,
	})
}

// Token returns the verified token stored by JwtProtected, or nil.
func Token(c *fiber.Ctx) *jwt.Token {
	token, _ := c.Locals(UserContextKey).(*jwt.Token)
	return token
}

func jwtError(c *fiber.Ctx, err error) error {
	detail := "invalid or expired token"
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		detail = "missing or malformed token"
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"type":     "about:blank",
		"title":    "Unauthorized",
		"status":   fiber.StatusUnauthorized,
		"detail":   detail,
		"instance": c.OriginalURL(),
	}, "application/problem+json")
}
