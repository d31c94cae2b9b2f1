package repository

import (
	"context"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
)

// ThemeRepository covers appearance settings, per-user saved themes and
// the platform-wide preset catalogue.
type ThemeRepository interface {
	GetSettings(ctx context.Context, userID string) (*entity.SiteSettings, error)
	UpsertSettings(ctx context.Context, s *entity.SiteSettings) error

	ListSavedThemes(ctx context.Context, userID string) ([]entity.SavedTheme, error)
	GetSavedTheme(ctx context.Context, userID, id string) (*entity.SavedTheme, error)
	CreateSavedTheme(ctx context.Context, t *entity.SavedTheme) error
	DeleteSavedTheme(ctx context.Context, userID, id string) error

	ListPresets(ctx context.Context, activeOnly bool) ([]entity.ThemePreset, error)
	GetPresetBySlug(ctx context.Context, slug string) (*entity.ThemePreset, error)
	UpsertPreset(ctx context.Context, p *entity.ThemePreset) error
}
