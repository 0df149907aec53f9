package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/models"
	appErrors "github.com/theshushant/gyaan-buddy-combined-sub001/pkg/errors"
	"github.com/theshushant/gyaan-buddy-combined-sub001/pkg/response"
)

// RequireUserTypes only lets callers whose token carries one of the given user types through.
func RequireUserTypes(types ...models.UserType) gin.HandlerFunc {
	allowed := make(map[models.UserType]struct{}, len(types))
	for _, t := range types {
		allowed[t] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[claims.UserType]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions"))
			return
		}
		c.Next()
	}
}

// RequireStaff allows teachers and admins.
func RequireStaff() gin.HandlerFunc {
	return RequireUserTypes(models.UserTypeTeacher, models.UserTypeAdmin)
}

// RequireAdminFor applies the admin check only when the predicate matches the request,
// e.g. hard deletes expressed as ?hard=true on a staff route.
func RequireAdminFor(match func(*gin.Context) bool) gin.HandlerFunc {
	admin := RequireUserTypes(models.UserTypeAdmin)
	return func(c *gin.Context) {
		if !match(c) {
			c.Next()
			return
		}
		admin(c)
	}
}
