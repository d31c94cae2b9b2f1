package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/portfoliopro/portfoliopro/internal/tenancy"
	"github.com/portfoliopro/portfoliopro/pkg/response"
)

// Tenant resolves the request host to a tenant once per request and
// attaches the resolution to both the Gin context and the request
// context. Handlers decide what an absent or unknown tenant means for
// their route.
func Tenant(resolver *tenancy.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := resolver.Resolve(c.Request.Context(), c.Request.Host, c.Query("subdomain"))
		if err != nil {
			response.Error[any](c, http.StatusInternalServerError, "tenant resolution failed", nil)
			c.Abort()
			return
		}
		c.Set("tenant_resolution", res)
		c.Request = c.Request.WithContext(tenancy.NewContext(c.Request.Context(), res))
		c.Next()
	}
}

// ResolutionFromGin pulls the resolution stored by Tenant. The zero
// value (OutcomeNone) is returned when the middleware did not run.
func ResolutionFromGin(c *gin.Context) tenancy.Resolution {
	if v, ok := c.Get("tenant_resolution"); ok {
		if res, ok := v.(tenancy.Resolution); ok {
			return res
		}
	}
	return tenancy.Resolution{}
}
