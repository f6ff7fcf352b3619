package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/utils"
)

// HasRole reports whether identity holds exactly role. Roles are not hierarchical.
func HasRole(identity *Identity, role models.Role) bool {
	return identity != nil && identity.Role == role
}

// RoleCheck lets the request through only for users with role. It must run after AuthMiddleware.
func RoleCheck(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			utils.RespondError(c, utils.Unauthenticated())
			return
		}
		if !HasRole(identity, role) {
			utils.RespondError(c, utils.Forbidden())
			return
		}
		c.Next()
	}
}

func IsAdmin() gin.HandlerFunc {
	return RoleCheck(models.RoleAdmin)
}

func IsWaiter() gin.HandlerFunc {
	return RoleCheck(models.RoleWaiter)
}
