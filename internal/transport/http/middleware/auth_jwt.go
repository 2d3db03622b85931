package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"bookstore/internal/apperr"
	"bookstore/internal/core/auth"
	"bookstore/internal/domain"
	"bookstore/internal/transport/http/response"
)

const (
	KeyUserID = "userId"
	KeyRole   = "role"
	KeyUser   = "user"
)

// RequireAuth resolves the Bearer token to a live, non-deleted user and
// attaches the identity to the request context. A token whose user has been
// deleted since issuance is rejected even if the signature is still valid.
func RequireAuth(j *auth.JWTer, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			response.Fail(c, apperr.Unauthorized("not authorized, no token provided"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			response.Fail(c, apperr.Unauthorized("not authorized, invalid or expired token"))
			return
		}
		u, err := users.FindByID(claims.UID)
		if err != nil {
			response.Fail(c, apperr.Internal("lookup user failed", err))
			return
		}
		if u == nil {
			response.Fail(c, apperr.Unauthorized("not authorized, user not found or deleted"))
			return
		}
		c.Set(KeyUserID, u.ID)
		c.Set(KeyRole, u.Role)
		c.Set(KeyUser, u)
		c.Next()
	}
}

// RequireRole gates a route on the resolved identity's role.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(KeyRole)
		if role == "" {
			response.Fail(c, apperr.Forbidden("access denied, no role provided"))
			return
		}
		if _, ok := allowed[role]; !ok {
			response.Fail(c, apperr.Forbidden("access denied, you do not have the required role"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity attached by RequireAuth.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(KeyUser); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
