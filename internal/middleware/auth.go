package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"

	"github.com/shatayaglobal/Manpower/internal/services"
	"github.com/shatayaglobal/Manpower/pkg/dto"
)

const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
)

// TokenValidator is satisfied by *services.JWTService.
type TokenValidator interface {
	ValidateAccessToken(token string) (*services.Claims, error)
}

func Auth(jwtService TokenValidator) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)

		c.Next()
	}
}

func unauthorized(c *drift.Context, message string) {
	_ = c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Code:    dto.CodeUnauthorized,
		Message: message,
	})
	c.Abort()
}

func GetUserID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(UserIDKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid
		}
	}
	return uuid.Nil
}

func GetUserEmail(c *drift.Context) string {
	if email, ok := c.Get(UserEmailKey); ok {
		if e, ok := email.(string); ok {
			return e
		}
	}
	return ""
}
