package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escolacentral/escola-backend/internal/model"
	"github.com/escolacentral/escola-backend/internal/response"
)

// RequireRole checks that the admin JWT carries one of the allowed roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
	}
}

// RequireSuperAdmin restricts a route to super administrators. Token
// issuance and the security dashboard sit behind this gate.
func RequireSuperAdmin() gin.HandlerFunc {
	return RequireRole(model.RoleSuperAdmin)
}
