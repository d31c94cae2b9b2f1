package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/portfoliopro/portfoliopro/config"
	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
)

// preset rows kept in sync with entity.Themes
var presets = []entity.ThemePreset{
	{Name: "Classic", Slug: "classic", Description: "Clean single-page layout with circle background accents.", CSSFile: "themes/classic.css", Position: 0},
	{Name: "Interactive 3D", Slug: "interactive_3d", Description: "WebGL hero scene with parallax sections.", CSSFile: "themes/interactive_3d.css", JSFile: "themes/interactive_3d.js", Position: 1},
	{Name: "DeveloperFolio", Slug: "developer_folio", Description: "Terminal-inspired layout for engineers.", CSSFile: "themes/developer_folio.css", Position: 2},
	{Name: "Irish Spring", Slug: "irish_spring", Description: "Fresh green palette with soft gradients.", CSSFile: "themes/irish_spring.css", Position: 3},
	{Name: "Neural Odyssey", Slug: "neural_odyssey", Description: "Dark neon theme with particle background.", CSSFile: "themes/neural_odyssey.css", JSFile: "themes/neural_odyssey.js", IsPremium: true, Position: 4},
	{Name: "Chrono Story", Slug: "chrono_story", Description: "Timeline-first storytelling layout.", CSSFile: "themes/chrono_story.css", Position: 5},
	{Name: "Glass Horizon", Slug: "glass_horizon", Description: "Glassmorphism cards over an aurora backdrop.", CSSFile: "themes/glass_horizon.css", IsPremium: true, Position: 6},
	{Name: "Cinematic Flow", Slug: "cinematic_flow", Description: "Full-bleed imagery with scroll-driven transitions.", CSSFile: "themes/cinematic_flow.css", JSFile: "themes/cinematic_flow.js", IsPremium: true, Position: 7},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	for _, p := range presets {
		cfgJSON, _ := json.Marshal(map[string]any{})
		if _, err := db.Exec(`
			INSERT INTO theme_presets (name, slug, description, preview_image, is_premium, is_active, default_config, css_file, js_file, position)
			VALUES ($1, $2, $3, $4, $5, true, $6, $7, $8, $9)
			ON CONFLICT (slug) DO UPDATE SET
				name = EXCLUDED.name, description = EXCLUDED.description,
				is_premium = EXCLUDED.is_premium, css_file = EXCLUDED.css_file,
				js_file = EXCLUDED.js_file, position = EXCLUDED.position
		`, p.Name, p.Slug, p.Description, p.PreviewImage, p.IsPremium, cfgJSON, p.CSSFile, p.JSFile, p.Position); err != nil {
			log.Fatalf("failed to seed preset %s: %v", p.Slug, err)
		}
	}
	fmt.Printf("seeded %d theme presets\n", len(presets))

	// Ensure a superadmin account exists. Credentials come from env so
	// defaults never land in production.
	email := getenvDefault("SUPERADMIN_EMAIL", "admin@portfoliopro.site")
	password := getenvDefault("SUPERADMIN_PASSWORD", "changeme1234")
	username := getenvDefault("SUPERADMIN_USERNAME", "superadmin")

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	var id string
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash, subdomain, role, is_active, is_banned)
		VALUES ($1, lower($2), $3, lower($4), 'SUPERADMIN', true, false)
		ON CONFLICT (email) DO UPDATE SET role = 'SUPERADMIN'
		RETURNING id
	`, username, email, hash, username).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed superadmin: %v", err)
	}
	fmt.Printf("superadmin ensured: id=%s email=%s\n", id, email)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
