package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	localUserID  = "user_id"
	localIsAdmin = "is_admin"
)

// TokenTTL is how long an issued login token stays valid.
const TokenTTL = 72 * time.Hour

// IssueToken signs a login token for the given user.
func IssueToken(secret string, userID int, isAdmin bool) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"is_admin": isAdmin,
		"exp":      time.Now().Add(TokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's id and admin flag in the request locals.
func RequireAuth(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		tokenString := c.Get("Authorization")
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
		}

		if !strings.HasPrefix(tokenString, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid header format"})
		}

		rawToken := tokenString[len("Bearer "):]
		token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing user ID in token"})
		}
		isAdmin, _ := claims["is_admin"].(bool)

		c.Locals(localUserID, int(userIDFloat))
		c.Locals(localIsAdmin, isAdmin)
		return c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(c *fiber.Ctx) error {
	if !IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access required"})
	}
	return c.Next()
}

// UserID returns the authenticated user's id, or 0 outside RequireAuth.
func UserID(c *fiber.Ctx) int {
	id, _ := c.Locals(localUserID).(int)
	return id
}

func IsAdmin(c *fiber.Ctx) bool {
	admin, _ := c.Locals(localIsAdmin).(bool)
	return admin
}
