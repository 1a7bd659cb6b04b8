package auth

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// HeaderName carries the signed token on every authenticated request.
const HeaderName = "x-auth-token"

const localsKey = "auth.claims"

// Roles understood by the API.
const (
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleDriver = "driver"
)

var (
	// ErrMissingToken is returned when the request carries no token.
	ErrMissingToken = errors.New("no token, authorization denied")
	// ErrInvalidToken is returned when the token fails verification.
	ErrInvalidToken = errors.New("token is not valid")
)

// Claims is the identity embedded in x-auth-token.
// ID is the internal account id, UserID the external user id (drivers are referenced by it).
type Claims struct {
	Role   string `json:"role"`
	UserID string `json:"userID"`
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs claims with HS256. A ttl of 0 issues a token without expiry.
func Issue(secret string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	if ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token string and returns its claims.
func Parse(secret, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Middleware rejects requests without a valid x-auth-token and stores the claims in Locals.
func Middleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := Parse(secret, c.Get(HeaderName))
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"message": err.Error(),
				"ray_id":  rayID(c),
			})
		}

		c.Locals(localsKey, claims)
		return c.Next()
	}
}

// RequireRole allows the request through only for the listed roles.
// It must run after Middleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := FromCtx(c)
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"message": ErrMissingToken.Error(),
				"ray_id":  rayID(c),
			})
		}

		if !slices.Contains(roles, claims.Role) {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{
				"message": "Access denied",
				"ray_id":  rayID(c),
			})
		}

		return c.Next()
	}
}

// FromCtx returns the claims stored by Middleware.
func FromCtx(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(localsKey).(*Claims)
	return claims, ok && claims != nil
}

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
