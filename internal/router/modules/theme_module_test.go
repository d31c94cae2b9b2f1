package modules

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/portfoliopro/portfoliopro/internal/application"
	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	"github.com/portfoliopro/portfoliopro/internal/domain/repository"
	handlers "github.com/portfoliopro/portfoliopro/internal/interface/http"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
)

type presetRepo struct {
	repository.ThemeRepository
}

func (presetRepo) ListPresets(_ context.Context, activeOnly bool) ([]entity.ThemePreset, error) {
	presets := []entity.ThemePreset{
		{ID: "p1", Name: "Midnight", Slug: "midnight", IsActive: true},
		{ID: "p2", Name: "Drafts", Slug: "drafts", IsActive: false},
	}
	if !activeOnly {
		return presets, nil
	}
	return presets[:1], nil
}

func themeTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	themes := app.NewThemeService(presetRepo{}, nil, logger, 0)
	h := handlers.NewThemeHandler(themes, logger)
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)

	r := gin.New()
	NewThemeModule(h, jwt).Register(r.Group("/api"))
	return r
}

func TestThemeRoutes(t *testing.T) {
	r := themeTestRouter()

	t.Run("preset catalogue needs no session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/theme/presets", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `"midnight"`)
		assert.NotContains(t, body, `"drafts"`)
	})

	t.Run("settings stay behind auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/theme/settings", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
