package entity

import "time"

// Appearance enumerations. Unknown values are rejected at binding time.
var (
	Fonts = []string{
		"DM Serif Display", "Public Sans", "DM Sans", "Inter", "Poppins",
		"Roboto", "Montserrat", "Open Sans", "Lato",
	}
	BackgroundStyles = []string{
		"none", "circles", "particles", "gradient", "grid", "waves",
		"matrix", "starfield", "aurora", "hexagons",
	}
	Themes = []string{
		"classic", "interactive_3d", "developer_folio", "irish_spring",
		"neural_odyssey", "chrono_story", "glass_horizon", "cinematic_flow",
	}
	ButtonStyles = []string{"rounded", "pill", "square"}
)

// SiteSettings is the per-user appearance configuration. One per user,
// created lazily with the defaults below.
type SiteSettings struct {
	ID     string
	UserID string

	PrimaryColor       string
	SecondaryColor     string
	BackgroundColor    string
	HeroAboutTextColor string
	GeneralTextColor   string

	NameFontSize           float64
	GreetingFontSize       float64
	NameFontSizeMobile     float64
	GreetingFontSizeMobile float64
	HeadingFont            string
	BodyFont               string

	SectionHeadingColor          string
	SectionHeadingFontSize       float64
	SectionHeadingFontSizeMobile float64

	ShowIntroSection   bool
	ShowAboutSection   bool
	ShowSkillsSection  bool
	ShowWorksSection   bool
	ShowContactSection bool

	BackgroundStyle string
	CircleColor     string

	ActiveTheme string
	ThemeConfig map[string]any // theme-specific JSON blob

	ButtonStyle string
	UpdatedAt   time.Time
}

// DefaultSiteSettings returns the appearance defaults for a new tenant.
func DefaultSiteSettings(userID string) *SiteSettings {
	return &SiteSettings{
		UserID:                       userID,
		PrimaryColor:                 "#eabe7c",
		SecondaryColor:               "#23967f",
		BackgroundColor:              "#0a0a0a",
		HeroAboutTextColor:           "#ffffff",
		GeneralTextColor:             "#a0a0a0",
		NameFontSize:                 11.0,
		GreetingFontSize:             2.0,
		NameFontSizeMobile:           4.0,
		GreetingFontSizeMobile:       1.5,
		HeadingFont:                  "DM Serif Display",
		BodyFont:                     "Public Sans",
		SectionHeadingColor:          "#ffffff",
		SectionHeadingFontSize:       1.6,
		SectionHeadingFontSizeMobile: 1.4,
		ShowIntroSection:             true,
		ShowAboutSection:             true,
		ShowSkillsSection:            true,
		ShowWorksSection:             true,
		ShowContactSection:           true,
		BackgroundStyle:              "circles",
		CircleColor:                  "#6366f1",
		ActiveTheme:                  "classic",
		ThemeConfig:                  map[string]any{},
		ButtonStyle:                  "rounded",
	}
}

// SavedTheme is a per-user named snapshot of appearance settings.
type SavedTheme struct {
	ID     string
	UserID string
	Name   string

	PrimaryColor    string
	SecondaryColor  string
	BackgroundColor string
	TextColor       string
	HeadingFont     string
	BodyFont        string
	BackgroundStyle string
	CircleColor     string
	ButtonStyle     string

	NameFontSize           float64
	GreetingFontSize       float64
	SectionHeadingFontSize float64

	CreatedAt time.Time
}

// ThemePreset is a platform-wide preset managed by superadmins and
// seeded by cmd/seed.
type ThemePreset struct {
	ID            string
	Name          string
	Slug          string
	Description   string
	PreviewImage  string
	IsPremium     bool
	IsActive      bool
	DefaultConfig map[string]any
	CSSFile       string
	JSFile        string
	Position      int
	CreatedAt     time.Time
}
