package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	repo "github.com/portfoliopro/portfoliopro/internal/domain/repository"
)

type fakeThemeRepo struct {
	repo.ThemeRepository

	settings map[string]*entity.SiteSettings
	saved    map[string]*entity.SavedTheme
	presets  map[string]*entity.ThemePreset
}

func newFakeThemeRepo() *fakeThemeRepo {
	return &fakeThemeRepo{
		settings: map[string]*entity.SiteSettings{},
		saved:    map[string]*entity.SavedTheme{},
		presets:  map[string]*entity.ThemePreset{},
	}
}

func (f *fakeThemeRepo) GetSettings(_ context.Context, userID string) (*entity.SiteSettings, error) {
	if st, ok := f.settings[userID]; ok {
		return st, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeThemeRepo) UpsertSettings(_ context.Context, st *entity.SiteSettings) error {
	f.settings[st.UserID] = st
	return nil
}

func (f *fakeThemeRepo) GetSavedTheme(_ context.Context, userID, id string) (*entity.SavedTheme, error) {
	if t, ok := f.saved[id]; ok && t.UserID == userID {
		return t, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeThemeRepo) CreateSavedTheme(_ context.Context, t *entity.SavedTheme) error {
	t.ID = "saved-" + t.Name
	f.saved[t.ID] = t
	return nil
}

func (f *fakeThemeRepo) GetPresetBySlug(_ context.Context, slug string) (*entity.ThemePreset, error) {
	if p, ok := f.presets[slug]; ok {
		return p, nil
	}
	return nil, repo.ErrNotFound
}

func newThemeService(r repo.ThemeRepository) *ThemeService {
	return NewThemeService(r, nil, quietLogger(), 0)
}

func TestGetSettingsDefaults(t *testing.T) {
	svc := newThemeService(newFakeThemeRepo())
	st, err := svc.GetSettings(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", st.UserID)
	assert.Equal(t, "classic", st.ActiveTheme)
	assert.Equal(t, "#eabe7c", st.PrimaryColor)
}

func TestSaveSettings(t *testing.T) {
	f := newFakeThemeRepo()
	svc := newThemeService(f)
	ctx := context.Background()

	t.Run("rejects unknown enum values", func(t *testing.T) {
		st := entity.DefaultSiteSettings("u1")
		st.ActiveTheme = "vaporwave"
		assert.ErrorIs(t, svc.SaveSettings(ctx, st), ErrInvalidTheme)

		st = entity.DefaultSiteSettings("u1")
		st.HeadingFont = "Comic Sans MS"
		assert.ErrorIs(t, svc.SaveSettings(ctx, st), ErrInvalidTheme)

		st = entity.DefaultSiteSettings("u1")
		st.ButtonStyle = "triangular"
		assert.ErrorIs(t, svc.SaveSettings(ctx, st), ErrInvalidTheme)
	})

	t.Run("persists valid settings", func(t *testing.T) {
		st := entity.DefaultSiteSettings("u1")
		st.ActiveTheme = "developer_folio"
		st.PrimaryColor = "#112233"
		require.NoError(t, svc.SaveSettings(ctx, st))
		assert.Equal(t, "developer_folio", f.settings["u1"].ActiveTheme)
		assert.NotNil(t, f.settings["u1"].ThemeConfig)
	})
}

func TestSaveAndApplySavedTheme(t *testing.T) {
	f := newFakeThemeRepo()
	svc := newThemeService(f)
	ctx := context.Background()

	live := entity.DefaultSiteSettings("u1")
	live.PrimaryColor = "#aabbcc"
	live.ButtonStyle = "pill"
	f.settings["u1"] = live

	snap, err := svc.SaveTheme(ctx, "u1", "my look")
	require.NoError(t, err)
	assert.Equal(t, "#aabbcc", snap.PrimaryColor)

	// change the live settings, then restore from the snapshot
	live.PrimaryColor = "#000000"
	live.ButtonStyle = "square"

	got, err := svc.ApplySavedTheme(ctx, "u1", snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "#aabbcc", got.PrimaryColor)
	assert.Equal(t, "pill", got.ButtonStyle)

	_, err = svc.ApplySavedTheme(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrThemeNotFound)

	_, err = svc.ApplySavedTheme(ctx, "someone-else", snap.ID)
	assert.ErrorIs(t, err, ErrThemeNotFound)
}

func TestApplyPreset(t *testing.T) {
	f := newFakeThemeRepo()
	f.presets["neural_odyssey"] = &entity.ThemePreset{
		Slug: "neural_odyssey", Name: "Neural Odyssey", IsActive: true,
		DefaultConfig: map[string]any{"particles": true, "speed": 2.0},
	}
	f.presets["retired"] = &entity.ThemePreset{Slug: "retired", Name: "Retired", IsActive: false}
	svc := newThemeService(f)
	ctx := context.Background()

	t.Run("switches theme and merges config", func(t *testing.T) {
		st, err := svc.ApplyPreset(ctx, "u1", "neural_odyssey")
		require.NoError(t, err)
		assert.Equal(t, "neural_odyssey", st.ActiveTheme)
		assert.Equal(t, true, st.ThemeConfig["particles"])
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := svc.ApplyPreset(ctx, "u1", "nope")
		assert.ErrorIs(t, err, ErrPresetNotFound)
	})

	t.Run("inactive preset", func(t *testing.T) {
		_, err := svc.ApplyPreset(ctx, "u1", "retired")
		assert.ErrorIs(t, err, ErrPresetInactive)
	})
}
