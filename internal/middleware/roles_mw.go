package middleware

import (
	"net/http"

	"microloan/internal/model"
	"microloan/internal/utils"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for specific user roles
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse("Role not found in context, ensure JWT middleware runs first", http.StatusForbidden))
			return
		}

		userRole, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse("Invalid role type in context", http.StatusForbidden))
			return
		}

		isAllowed := false
		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse("You do not have permission to access this resource", http.StatusForbidden))
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if the caller is an admin
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}

// EndUserMiddleware checks that the caller is an end user. Admins are
// rejected here: loans are created and submitted by their owners only.
func EndUserMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleEndUser)
}
