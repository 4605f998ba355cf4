package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"heavyhub/internal/domain/booking"
	"heavyhub/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthMiddleware verifies bearer tokens issued by the external identity
// provider. This service never issues tokens itself.
type AuthMiddleware struct {
	verifier *jwt.Verifier
}

const (
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"

	RoleAdmin = "admin"
)

func NewAuthMiddleware(verifier *jwt.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.verifier.VerifyToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxUserRoleKey, claims.Role)
		c.Set("jwt_claims", map[string]any{
			"user_id": claims.UserID.String(),
			"role":    claims.Role,
		})
		c.Next()
	}
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) (string, bool) {
	userRole, exists := c.Get(ctxUserRoleKey)
	if !exists {
		return "", false
	}

	role, ok := userRole.(string)
	return role, ok
}

// GetActor assembles the domain actor for the authenticated principal.
func GetActor(c *gin.Context) (booking.Actor, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return booking.Actor{}, false
	}
	role, _ := GetUserRole(c)
	return booking.Actor{ID: id, IsAdmin: role == RoleAdmin}, true
}
