package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
	"github.com/portfoliopro/portfoliopro/pkg/response"
)

// Auth validates the access token cookie and checks the token's session
// id against the live Redis session, so logout and moderation actions
// cut off outstanding tokens. On success it sets userID, userRole,
// userSubdomain and impersonatorID in the Gin context.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}

		if rdb != nil {
			key := "user:session:" + claims.UserID
			data, err := rdb.HGetAll(c.Request.Context(), key).Result()
			if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
				response.Error[any](c, http.StatusUnauthorized, "session expired", nil)
				c.Abort()
				return
			}
		}

		c.Set("userID", claims.UserID)
		c.Set("userRole", string(claims.Role))
		c.Set("userSubdomain", claims.Subdomain)
		if claims.Impersonated() {
			c.Set("impersonatorID", claims.ImpersonatorID)
		}
		c.Next()
	}
}

// RequireSuperadmin gates the admin surface. Runs after Auth.
func RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userRole") != string(entity.RoleSuperadmin) {
			response.Error[any](c, http.StatusForbidden, "superadmin only", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
