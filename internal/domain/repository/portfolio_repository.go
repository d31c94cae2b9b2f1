package repository

import (
	"context"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
)

// ContentStats feeds the superadmin dashboard counters.
type ContentStats struct {
	TotalProfiles int64
	TotalProjects int64
	TotalSkills   int64
}

// PortfolioRepository covers all user-owned portfolio section rows.
// Mutations on ordered collections are always scoped by the owner's user id;
// a mismatched owner surfaces as ErrNotFound, never as another user's row.
type PortfolioRepository interface {
	// Singletons (created lazily by the service layer)
	GetProfile(ctx context.Context, userID string) (*entity.Profile, error)
	UpsertProfile(ctx context.Context, p *entity.Profile) error
	GetContact(ctx context.Context, userID string) (*entity.ContactInfo, error)
	UpsertContact(ctx context.Context, c *entity.ContactInfo) error

	// Social links
	ListSocialLinks(ctx context.Context, userID string) ([]entity.SocialLink, error)
	CreateSocialLink(ctx context.Context, l *entity.SocialLink) error
	UpdateSocialLink(ctx context.Context, l *entity.SocialLink) error
	DeleteSocialLink(ctx context.Context, userID, id string) error

	// Expertise
	ListExpertise(ctx context.Context, userID string) ([]entity.Expertise, error)
	CreateExpertise(ctx context.Context, e *entity.Expertise) error
	UpdateExpertise(ctx context.Context, e *entity.Expertise) error
	DeleteExpertise(ctx context.Context, userID, id string) error

	// Experience
	ListExperiences(ctx context.Context, userID string) ([]entity.Experience, error)
	CreateExperience(ctx context.Context, e *entity.Experience) error
	UpdateExperience(ctx context.Context, e *entity.Experience) error
	DeleteExperience(ctx context.Context, userID, id string) error

	// Education
	ListEducation(ctx context.Context, userID string) ([]entity.Education, error)
	CreateEducation(ctx context.Context, e *entity.Education) error
	UpdateEducation(ctx context.Context, e *entity.Education) error
	DeleteEducation(ctx context.Context, userID, id string) error

	// Skills
	ListSkills(ctx context.Context, userID string) ([]entity.Skill, error)
	CreateSkill(ctx context.Context, s *entity.Skill) error
	UpdateSkill(ctx context.Context, s *entity.Skill) error
	DeleteSkill(ctx context.Context, userID, id string) error

	// Projects
	ListProjects(ctx context.Context, userID string) ([]entity.Project, error)
	CreateProject(ctx context.Context, p *entity.Project) error
	UpdateProject(ctx context.Context, p *entity.Project) error
	DeleteProject(ctx context.Context, userID, id string) error

	// Custom sections and their items
	ListCustomSections(ctx context.Context, userID string, visibleOnly bool) ([]entity.CustomSection, error)
	GetCustomSection(ctx context.Context, userID, id string) (*entity.CustomSection, error)
	SlugExists(ctx context.Context, userID, slug string) (bool, error)
	CreateCustomSection(ctx context.Context, s *entity.CustomSection) error
	UpdateCustomSection(ctx context.Context, s *entity.CustomSection) error
	DeleteCustomSection(ctx context.Context, userID, id string) error
	CreateCustomItem(ctx context.Context, userID string, it *entity.CustomItem) error
	UpdateCustomItem(ctx context.Context, userID string, it *entity.CustomItem) error
	DeleteCustomItem(ctx context.Context, userID, id string) error

	// Reordering of custom sections (drag-and-drop in the admin panel)
	UpdateSectionOrder(ctx context.Context, userID string, orderedIDs []string) error

	ContentStats(ctx context.Context) (ContentStats, error)
}
