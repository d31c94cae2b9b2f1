package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	"github.com/portfoliopro/portfoliopro/internal/domain/repository"
)

type PortfolioRepository struct {
	pool *pgxpool.Pool
}

func NewPortfolioRepository(pool *pgxpool.Pool) *PortfolioRepository {
	return &PortfolioRepository{pool: pool}
}

func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// affected maps a zero-row mutation to ErrNotFound so owner-scoped updates
// on foreign rows look identical to missing rows.
func affected(tag interface{ RowsAffected() int64 }, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ---- Profile / Contact singletons ----

func (r *PortfolioRepository) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	p := &entity.Profile{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, greeting, hero_bio, about_text, about_photo_url, cv_link, updated_at
		FROM profiles WHERE user_id = $1
	`, userID).Scan(&p.ID, &p.UserID, &p.Name, &p.Greeting, &p.HeroBio, &p.AboutText,
		&p.AboutPhoto, &p.CVLink, &p.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return p, nil
}

func (r *PortfolioRepository) UpsertProfile(ctx context.Context, p *entity.Profile) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, name, greeting, hero_bio, about_text, about_photo_url, cv_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name, greeting = EXCLUDED.greeting, hero_bio = EXCLUDED.hero_bio,
			about_text = EXCLUDED.about_text, about_photo_url = EXCLUDED.about_photo_url,
			cv_link = EXCLUDED.cv_link, updated_at = now()
		RETURNING id, updated_at
	`, p.UserID, p.Name, p.Greeting, p.HeroBio, p.AboutText, p.AboutPhoto, p.CVLink).
		Scan(&p.ID, &p.UpdatedAt)
}

func (r *PortfolioRepository) GetContact(ctx context.Context, userID string) (*entity.ContactInfo, error) {
	c := &entity.ContactInfo{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, email, phone, heading FROM contact_info WHERE user_id = $1
	`, userID).Scan(&c.ID, &c.UserID, &c.Email, &c.Phone, &c.Heading)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return c, nil
}

func (r *PortfolioRepository) UpsertContact(ctx context.Context, c *entity.ContactInfo) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO contact_info (user_id, email, phone, heading)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email, phone = EXCLUDED.phone, heading = EXCLUDED.heading
		RETURNING id
	`, c.UserID, c.Email, c.Phone, c.Heading).Scan(&c.ID)
}

// ---- Social links ----

func (r *PortfolioRepository) ListSocialLinks(ctx context.Context, userID string) ([]entity.SocialLink, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, platform, display_name, url, position
		FROM social_links WHERE user_id = $1 ORDER BY position
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.SocialLink
	for rows.Next() {
		var l entity.SocialLink
		if err := rows.Scan(&l.ID, &l.UserID, &l.Platform, &l.DisplayName, &l.URL, &l.Position); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PortfolioRepository) CreateSocialLink(ctx context.Context, l *entity.SocialLink) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO social_links (user_id, platform, display_name, url, position)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, l.UserID, l.Platform, l.DisplayName, l.URL, l.Position).Scan(&l.ID)
}

func (r *PortfolioRepository) UpdateSocialLink(ctx context.Context, l *entity.SocialLink) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE social_links SET platform = $1, display_name = $2, url = $3, position = $4
		WHERE id = $5 AND user_id = $6
	`, l.Platform, l.DisplayName, l.URL, l.Position, l.ID, l.UserID)
	return affected(tag, err)
}

func (r *PortfolioRepository) DeleteSocialLink(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM social_links WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err)
}

// ---- Expertise ----

func (r *PortfolioRepository) ListExpertise(ctx context.Context, userID string) ([]entity.Expertise, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, position FROM expertise WHERE user_id = $1 ORDER BY position
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Expertise
	for rows.Next() {
		var e entity.Expertise
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Position); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PortfolioRepository) CreateExpertise(ctx context.Context, e *entity.Expertise) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO expertise (user_id, name, position) VALUES ($1, $2, $3) RETURNING id
	`, e.UserID, e.Name, e.Position).Scan(&e.ID)
}

func (r *PortfolioRepository) UpdateExpertise(ctx context.Context, e *entity.Expertise) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE expertise SET name = $1, position = $2 WHERE id = $3 AND user_id = $4
	`, e.Name, e.Position, e.ID, e.UserID)
	return affected(tag, err)
}

func (r *PortfolioRepository) DeleteExpertise(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expertise WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err)
}

// ---- Experience ----

func (r *PortfolioRepository) ListExperiences(ctx context.Context, userID string) ([]entity.Experience, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, company, position_title, timeframe, description, position
		FROM experiences WHERE user_id = $1 ORDER BY position
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Experience
	for rows.Next() {
		var e entity.Experience
		if err := rows.Scan(&e.ID, &e.UserID, &e.Company, &e.PositionAt, &e.Timeframe, &e.Description, &e.Position); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PortfolioRepository) CreateExperience(ctx context.Context, e *entity.Experience) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO experiences (user_id, company, position_title, timeframe, description, position)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
	`, e.UserID, e.Company, e.PositionAt, e.Timeframe, e.Description, e.Position).Scan(&e.ID)
}

func (r *PortfolioRepository) UpdateExperience(ctx context.Context, e *entity.Experience) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE experiences SET company = $1, position_title = $2, timeframe = $3, description = $4, position = $5
		WHERE id = $6 AND user_id = $7
	`, e.Company, e.PositionAt, e.Timeframe, e.Description, e.Position, e.ID, e.UserID)
	return affected(tag, err)
}

func (r *PortfolioRepository) DeleteExperience(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM experiences WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err)
}

// ---- Education ----

func (r *PortfolioRepository) ListEducation(ctx context.Context, userID string) ([]entity.Education, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, institution, degree, timeframe, description, position
		FROM education WHERE user_id = $1 ORDER BY position
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Education
	for rows.Next() {
		var e entity.Education
		if err := rows.Scan(&e.ID, &e.UserID, &e.Institution, &e.Degree, &e.Timeframe, &e.Description, &e.Position); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PortfolioRepository) CreateEducation(ctx context.Context, e *entity.Education) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO education (user_id, institution, degree, timeframe, description, position)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
	`, e.UserID, e.Institution, e.Degree, e.Timeframe, e.Description, e.Position).Scan(&e.ID)
}

func (r *PortfolioRepository) UpdateEducation(ctx context.Context, e *entity.Education) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE education SET institution = $1, degree = $2, timeframe = $3, description = $4, position = $5
		WHERE id = $6 AND user_id = $7
	`, e.Institution, e.Degree, e.Timeframe, e.Description, e.Position, e.ID, e.UserID)
	return affected(tag, err)
}

func (r *PortfolioRepository) DeleteEducation(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM education WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err)
}

// ---- Skills ----

func (r *PortfolioRepository) ListSkills(ctx context.Context, userID string) ([]entity.Skill, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, category, icon_url, description, position
		FROM skills WHERE user_id = $1 ORDER BY position
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Skill
	for rows.Next() {
		var s entity.Skill
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Category, &s.IconURL, &s.Description, &s.Position); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PortfolioRepository) CreateSkill(ctx context.Context, s *entity.Skill) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO skills (user_id, name, category, icon_url, description, position)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
	`, s.UserID, s.Name, s.Category, s.IconURL, s.Description, s.Position).Scan(&s.ID)
}

func (r *PortfolioRepository) UpdateSkill(ctx context.Context, s *entity.Skill) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE skills SET name = $1, category = $2, icon_url = $3, description = $4, position = $5
		WHERE id = $6 AND user_id = $7
	`, s.Name, s.Category, s.IconURL, s.Description, s.Position, s.ID, s.UserID)
	return affected(tag, err)
}

func (r *PortfolioRepository) DeleteSkill(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM skills WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err)
}

// ---- Projects ----

func (r *PortfolioRepository) ListProjects(ctx context.Context, userID string) ([]entity.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, category, url, description, icon_url, position
		FROM projects WHERE user_id = $1 ORDER BY position
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Project
	for rows.Next() {
		var p entity.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Category, &p.URL, &p.Description, &p.IconURL, &p.Position); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PortfolioRepository) CreateProject(ctx context.Context, p *entity.Project) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO projects (user_id, title, category, url, description, icon_url, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id
	`, p.UserID, p.Title, p.Category, p.URL, p.Description, p.IconURL, p.Position).Scan(&p.ID)
}

func (r *PortfolioRepository) UpdateProject(ctx context.Context, p *entity.Project) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE projects SET title = $1, category = $2, url = $3, description = $4, icon_url = $5, position = $6
		WHERE id = $7 AND user_id = $8
	`, p.Title, p.Category, p.URL, p.Description, p.IconURL, p.Position, p.ID, p.UserID)
	return affected(tag, err)
}

func (r *PortfolioRepository) DeleteProject(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err)
}

// ---- Custom sections ----

const sectionColumns = `id, user_id, title, slug, icon, position, is_visible, show_image, show_link_button, button_text, card_layout`

func scanSection(row pgx.Row) (*entity.CustomSection, error) {
	s := &entity.CustomSection{}
	if err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.Slug, &s.Icon, &s.Position,
		&s.IsVisible, &s.ShowImage, &s.ShowLinkButton, &s.ButtonText, &s.CardLayout); err != nil {
		return nil, notFoundOr(err)
	}
	return s, nil
}

func (r *PortfolioRepository) ListCustomSections(ctx context.Context, userID string, visibleOnly bool) ([]entity.CustomSection, error) {
	q := `SELECT ` + sectionColumns + ` FROM custom_sections WHERE user_id = $1`
	if visibleOnly {
		q += ` AND is_visible`
	}
	q += ` ORDER BY position`

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.CustomSection
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.listItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *PortfolioRepository) GetCustomSection(ctx context.Context, userID, id string) (*entity.CustomSection, error) {
	s, err := scanSection(r.pool.QueryRow(ctx, `
		SELECT `+sectionColumns+` FROM custom_sections WHERE id = $1 AND user_id = $2
	`, id, userID))
	if err != nil {
		return nil, err
	}
	items, err := r.listItems(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

func (r *PortfolioRepository) listItems(ctx context.Context, sectionID string) ([]entity.CustomItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, section_id, title, subtitle, description, link, icon_url, position
		FROM custom_items WHERE section_id = $1 ORDER BY position
	`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.CustomItem
	for rows.Next() {
		var it entity.CustomItem
		if err := rows.Scan(&it.ID, &it.SectionID, &it.Title, &it.Subtitle, &it.Description,
			&it.Link, &it.IconURL, &it.Position); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PortfolioRepository) SlugExists(ctx context.Context, userID, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM custom_sections WHERE user_id = $1 AND slug = $2)
	`, userID, slug).Scan(&exists)
	return exists, err
}

func (r *PortfolioRepository) CreateCustomSection(ctx context.Context, s *entity.CustomSection) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO custom_sections (user_id, title, slug, icon, position, is_visible, show_image, show_link_button, button_text, card_layout)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, s.UserID, s.Title, s.Slug, s.Icon, s.Position, s.IsVisible,
		s.ShowImage, s.ShowLinkButton, s.ButtonText, s.CardLayout).Scan(&s.ID)
}

func (r *PortfolioRepository) UpdateCustomSection(ctx context.Context, s *entity.CustomSection) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE custom_sections
		SET title = $1, slug = $2, icon = $3, position = $4, is_visible = $5, show_image = $6,
		    show_link_button = $7, button_text = $8, card_layout = $9
		WHERE id = $10 AND user_id = $11
	`, s.Title, s.Slug, s.Icon, s.Position, s.IsVisible, s.ShowImage, s.ShowLinkButton, s.ButtonText, s.CardLayout, s.ID, s.UserID)
	return affected(tag, err)
}

func (r *PortfolioRepository) DeleteCustomSection(ctx context.Context, userID, id string) error {
	// custom_items cascade via FK
	tag, err := r.pool.Exec(ctx, `DELETE FROM custom_sections WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err)
}

func (r *PortfolioRepository) CreateCustomItem(ctx context.Context, userID string, it *entity.CustomItem) error {
	// Ownership enforced through the section join.
	err := r.pool.QueryRow(ctx, `
		INSERT INTO custom_items (section_id, title, subtitle, description, link, icon_url, position)
		SELECT s.id, $2, $3, $4, $5, $6, $7
		FROM custom_sections s WHERE s.id = $1 AND s.user_id = $8
		RETURNING id
	`, it.SectionID, it.Title, it.Subtitle, it.Description, it.Link, it.IconURL, it.Position, userID).Scan(&it.ID)
	return notFoundOr(err)
}

func (r *PortfolioRepository) UpdateCustomItem(ctx context.Context, userID string, it *entity.CustomItem) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE custom_items i
		SET title = $1, subtitle = $2, description = $3, link = $4, icon_url = $5, position = $6
		FROM custom_sections s
		WHERE i.id = $7 AND i.section_id = s.id AND s.user_id = $8
	`, it.Title, it.Subtitle, it.Description, it.Link, it.IconURL, it.Position, it.ID, userID)
	return affected(tag, err)
}

func (r *PortfolioRepository) DeleteCustomItem(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM custom_items i
		USING custom_sections s
		WHERE i.id = $1 AND i.section_id = s.id AND s.user_id = $2
	`, id, userID)
	return affected(tag, err)
}

func (r *PortfolioRepository) UpdateSectionOrder(ctx context.Context, userID string, orderedIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for pos, id := range orderedIDs {
		if _, err := tx.Exec(ctx, `
			UPDATE custom_sections SET position = $1 WHERE id = $2 AND user_id = $3
		`, pos, id, userID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PortfolioRepository) ContentStats(ctx context.Context) (repository.ContentStats, error) {
	var s repository.ContentStats
	err := r.pool.QueryRow(ctx, `
		SELECT (SELECT count(*) FROM profiles),
		       (SELECT count(*) FROM projects),
		       (SELECT count(*) FROM skills)
	`).Scan(&s.TotalProfiles, &s.TotalProjects, &s.TotalSkills)
	return s, err
}

var _ repository.PortfolioRepository = (*PortfolioRepository)(nil)
