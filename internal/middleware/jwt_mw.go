package middleware

import (
	"net/http"
	"strings"

	"microloan/internal/repository"
	"microloan/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = "authUser"
	AuthRoleKey = "authRole"
)

// JWTAuthMiddleware authenticates the bearer token and resolves its subject
// against the user store. It fails closed: missing header, malformed token,
// bad signature, expiry, or a subject that no longer exists all abort 401.
// The role attached to the context is the stored one, not the token claim,
// so a stale token cannot keep a revoked role alive.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Authorization header required", http.StatusUnauthorized))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid authorization header format", http.StatusUnauthorized))
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid or expired token", http.StatusUnauthorized))
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid or expired token", http.StatusUnauthorized))
			return
		}

		c.Set(AuthUserKey, user.ID)
		c.Set(AuthRoleKey, user.Role)

		c.Next()
	}
}
