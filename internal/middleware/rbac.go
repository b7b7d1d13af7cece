package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teaching-load-api/internal/models"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
	"github.com/noah-isme/teaching-load-api/pkg/response"
)

// RequireRoles lets the request through only when the caller holds one of roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "role "+string(claims.Role)+" may not perform this action"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Role groups used by the route table.
var (
	FacultyRoles    = []models.Role{models.RoleFaculty, models.RoleSuperAdmin}
	SchedulingRoles = []models.Role{models.RoleFaculty, models.RoleSuperAdmin, models.RoleChair, models.RoleCentralOffice}
	AllRoles        = []models.Role{models.RoleFaculty, models.RoleSuperAdmin, models.RoleChair, models.RoleCentralOffice, models.RoleInstructor}
)
