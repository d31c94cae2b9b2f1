package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	"github.com/portfoliopro/portfoliopro/internal/domain/repository"
)

type ThemeRepository struct {
	pool *pgxpool.Pool
}

func NewThemeRepository(pool *pgxpool.Pool) *ThemeRepository {
	return &ThemeRepository{pool: pool}
}

const settingsColumns = `
	id, user_id,
	primary_color, secondary_color, background_color, hero_about_text_color, general_text_color,
	name_font_size, greeting_font_size, name_font_size_mobile, greeting_font_size_mobile,
	heading_font, body_font,
	section_heading_color, section_heading_font_size, section_heading_font_size_mobile,
	show_intro_section, show_about_section, show_skills_section, show_works_section, show_contact_section,
	background_style, circle_color, active_theme, theme_config, button_style, updated_at`

func scanSettings(row pgx.Row) (*entity.SiteSettings, error) {
	s := &entity.SiteSettings{}
	var cfg []byte
	err := row.Scan(&s.ID, &s.UserID,
		&s.PrimaryColor, &s.SecondaryColor, &s.BackgroundColor, &s.HeroAboutTextColor, &s.GeneralTextColor,
		&s.NameFontSize, &s.GreetingFontSize, &s.NameFontSizeMobile, &s.GreetingFontSizeMobile,
		&s.HeadingFont, &s.BodyFont,
		&s.SectionHeadingColor, &s.SectionHeadingFontSize, &s.SectionHeadingFontSizeMobile,
		&s.ShowIntroSection, &s.ShowAboutSection, &s.ShowSkillsSection, &s.ShowWorksSection, &s.ShowContactSection,
		&s.BackgroundStyle, &s.CircleColor, &s.ActiveTheme, &cfg, &s.ButtonStyle, &s.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	s.ThemeConfig = map[string]any{}
	if len(cfg) > 0 {
		if err := json.Unmarshal(cfg, &s.ThemeConfig); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (r *ThemeRepository) GetSettings(ctx context.Context, userID string) (*entity.SiteSettings, error) {
	return scanSettings(r.pool.QueryRow(ctx, `
		SELECT `+settingsColumns+` FROM site_settings WHERE user_id = $1
	`, userID))
}

func (r *ThemeRepository) UpsertSettings(ctx context.Context, s *entity.SiteSettings) error {
	cfg, err := json.Marshal(s.ThemeConfig)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO site_settings (
			user_id,
			primary_color, secondary_color, background_color, hero_about_text_color, general_text_color,
			name_font_size, greeting_font_size, name_font_size_mobile, greeting_font_size_mobile,
			heading_font, body_font,
			section_heading_color, section_heading_font_size, section_heading_font_size_mobile,
			show_intro_section, show_about_section, show_skills_section, show_works_section, show_contact_section,
			background_style, circle_color, active_theme, theme_config, button_style
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		          $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (user_id) DO UPDATE SET
			primary_color = EXCLUDED.primary_color,
			secondary_color = EXCLUDED.secondary_color,
			background_color = EXCLUDED.background_color,
			hero_about_text_color = EXCLUDED.hero_about_text_color,
			general_text_color = EXCLUDED.general_text_color,
			name_font_size = EXCLUDED.name_font_size,
			greeting_font_size = EXCLUDED.greeting_font_size,
			name_font_size_mobile = EXCLUDED.name_font_size_mobile,
			greeting_font_size_mobile = EXCLUDED.greeting_font_size_mobile,
			heading_font = EXCLUDED.heading_font,
			body_font = EXCLUDED.body_font,
			section_heading_color = EXCLUDED.section_heading_color,
			section_heading_font_size = EXCLUDED.section_heading_font_size,
			section_heading_font_size_mobile = EXCLUDED.section_heading_font_size_mobile,
			show_intro_section = EXCLUDED.show_intro_section,
			show_about_section = EXCLUDED.show_about_section,
			show_skills_section = EXCLUDED.show_skills_section,
			show_works_section = EXCLUDED.show_works_section,
			show_contact_section = EXCLUDED.show_contact_section,
			background_style = EXCLUDED.background_style,
			circle_color = EXCLUDED.circle_color,
			active_theme = EXCLUDED.active_theme,
			theme_config = EXCLUDED.theme_config,
			button_style = EXCLUDED.button_style,
			updated_at = now()
		RETURNING id, updated_at
	`, s.UserID,
		s.PrimaryColor, s.SecondaryColor, s.BackgroundColor, s.HeroAboutTextColor, s.GeneralTextColor,
		s.NameFontSize, s.GreetingFontSize, s.NameFontSizeMobile, s.GreetingFontSizeMobile,
		s.HeadingFont, s.BodyFont,
		s.SectionHeadingColor, s.SectionHeadingFontSize, s.SectionHeadingFontSizeMobile,
		s.ShowIntroSection, s.ShowAboutSection, s.ShowSkillsSection, s.ShowWorksSection, s.ShowContactSection,
		s.BackgroundStyle, s.CircleColor, s.ActiveTheme, cfg, s.ButtonStyle).
		Scan(&s.ID, &s.UpdatedAt)
}

const savedThemeColumns = `
	id, user_id, name,
	primary_color, secondary_color, background_color, text_color,
	heading_font, body_font, background_style, circle_color, button_style,
	name_font_size, greeting_font_size, section_heading_font_size, created_at`

func scanSavedTheme(row pgx.Row) (*entity.SavedTheme, error) {
	t := &entity.SavedTheme{}
	err := row.Scan(&t.ID, &t.UserID, &t.Name,
		&t.PrimaryColor, &t.SecondaryColor, &t.BackgroundColor, &t.TextColor,
		&t.HeadingFont, &t.BodyFont, &t.BackgroundStyle, &t.CircleColor, &t.ButtonStyle,
		&t.NameFontSize, &t.GreetingFontSize, &t.SectionHeadingFontSize, &t.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return t, nil
}

func (r *ThemeRepository) ListSavedThemes(ctx context.Context, userID string) ([]entity.SavedTheme, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+savedThemeColumns+` FROM saved_themes WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.SavedTheme
	for rows.Next() {
		t, err := scanSavedTheme(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *ThemeRepository) GetSavedTheme(ctx context.Context, userID, id string) (*entity.SavedTheme, error) {
	return scanSavedTheme(r.pool.QueryRow(ctx, `
		SELECT `+savedThemeColumns+` FROM saved_themes WHERE id = $1 AND user_id = $2
	`, id, userID))
}

func (r *ThemeRepository) CreateSavedTheme(ctx context.Context, t *entity.SavedTheme) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO saved_themes (
			user_id, name,
			primary_color, secondary_color, background_color, text_color,
			heading_font, body_font, background_style, circle_color, button_style,
			name_font_size, greeting_font_size, section_heading_font_size
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`, t.UserID, t.Name,
		t.PrimaryColor, t.SecondaryColor, t.BackgroundColor, t.TextColor,
		t.HeadingFont, t.BodyFont, t.BackgroundStyle, t.CircleColor, t.ButtonStyle,
		t.NameFontSize, t.GreetingFontSize, t.SectionHeadingFontSize).
		Scan(&t.ID, &t.CreatedAt)
}

func (r *ThemeRepository) DeleteSavedTheme(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM saved_themes WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err)
}

const presetColumns = `
	id, name, slug, description, preview_image, is_premium, is_active,
	default_config, css_file, js_file, position, created_at`

func scanPreset(row pgx.Row) (*entity.ThemePreset, error) {
	p := &entity.ThemePreset{}
	var cfg []byte
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.PreviewImage,
		&p.IsPremium, &p.IsActive, &cfg, &p.CSSFile, &p.JSFile, &p.Position, &p.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	p.DefaultConfig = map[string]any{}
	if len(cfg) > 0 {
		if err := json.Unmarshal(cfg, &p.DefaultConfig); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (r *ThemeRepository) ListPresets(ctx context.Context, activeOnly bool) ([]entity.ThemePreset, error) {
	q := `SELECT ` + presetColumns + ` FROM theme_presets`
	if activeOnly {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY position`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.ThemePreset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ThemeRepository) GetPresetBySlug(ctx context.Context, slug string) (*entity.ThemePreset, error) {
	return scanPreset(r.pool.QueryRow(ctx, `
		SELECT `+presetColumns+` FROM theme_presets WHERE slug = $1
	`, slug))
}

func (r *ThemeRepository) UpsertPreset(ctx context.Context, p *entity.ThemePreset) error {
	cfg, err := json.Marshal(p.DefaultConfig)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO theme_presets (name, slug, description, preview_image, is_premium, is_active,
			default_config, css_file, js_file, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			preview_image = EXCLUDED.preview_image, is_premium = EXCLUDED.is_premium,
			is_active = EXCLUDED.is_active, default_config = EXCLUDED.default_config,
			css_file = EXCLUDED.css_file, js_file = EXCLUDED.js_file, position = EXCLUDED.position
		RETURNING id, created_at
	`, p.Name, p.Slug, p.Description, p.PreviewImage, p.IsPremium, p.IsActive,
		cfg, p.CSSFile, p.JSFile, p.Position).Scan(&p.ID, &p.CreatedAt)
}

var _ repository.ThemeRepository = (*ThemeRepository)(nil)
