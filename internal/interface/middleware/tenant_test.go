package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	"github.com/portfoliopro/portfoliopro/internal/domain/repository"
	"github.com/portfoliopro/portfoliopro/internal/tenancy"
)

type stubLookup struct {
	users map[string]*entity.User
	err   error
}

func (s *stubLookup) FindTenant(_ context.Context, subdomain string) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[subdomain]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func testResolver(lookup *stubLookup) *tenancy.Resolver {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return tenancy.NewResolver(tenancy.Config{
		BaseDomain:     "example.test",
		ReservedLabels: []string{"www", "api"},
	}, lookup, nil, logger)
}

func tenantRouter(resolver *tenancy.Resolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Tenant(resolver))
	r.GET("/", func(c *gin.Context) {
		res := ResolutionFromGin(c)
		body := gin.H{"outcome": res.Outcome.String()}
		if res.TenantPresent() {
			body["user_id"] = res.Tenant.UserID
		}
		c.JSON(http.StatusOK, body)
	})
	return r
}

func doHost(t *testing.T, r *gin.Engine, host string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "http://"+host+"/", nil)
	req.Host = host
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTenantMiddleware(t *testing.T) {
	lookup := &stubLookup{users: map[string]*entity.User{
		"jane": {ID: "u1", Username: "jane", Subdomain: "jane", IsActive: true},
	}}
	r := tenantRouter(testResolver(lookup))

	t.Run("tenant host", func(t *testing.T) {
		w := doHost(t, r, "jane.example.test")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"outcome":"tenant"`)
		assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
	})

	t.Run("base domain", func(t *testing.T) {
		w := doHost(t, r, "example.test")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"outcome":"none"`)
	})

	t.Run("reserved label", func(t *testing.T) {
		w := doHost(t, r, "www.example.test")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"outcome":"none"`)
	})

	t.Run("unknown subdomain", func(t *testing.T) {
		w := doHost(t, r, "ghost.example.test")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"outcome":"not_found"`)
	})

	t.Run("host with port", func(t *testing.T) {
		w := doHost(t, r, "jane.example.test:8080")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"outcome":"tenant"`)
	})

	t.Run("lookup failure aborts with 500", func(t *testing.T) {
		failing := tenantRouter(testResolver(&stubLookup{err: errors.New("db down")}))
		w := doHost(t, failing, "jane.example.test")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
