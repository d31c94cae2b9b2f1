package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	repo "github.com/portfoliopro/portfoliopro/internal/domain/repository"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
)

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrSlugTaken       = errors.New("slug taken")
	ErrUploadDisabled  = errors.New("uploads not configured")
)

// PortfolioService owns section content and the assembled public page.
// Every mutation drops the page cache for the owning tenant.
type PortfolioService struct {
	Repo      repo.PortfolioRepository
	Themes    repo.ThemeRepository
	Redis     *redis.Client
	Logger    *logrus.Logger
	GCS       *storage.Client
	GCSBucket string
	PageTTL   time.Duration
}

func NewPortfolioService(r repo.PortfolioRepository, themes repo.ThemeRepository, rdb *redis.Client, logger *logrus.Logger, gcs *storage.Client, bucket string, pageTTL time.Duration) *PortfolioService {
	return &PortfolioService{
		Repo:      r,
		Themes:    themes,
		Redis:     rdb,
		Logger:    logger,
		GCS:       gcs,
		GCSBucket: bucket,
		PageTTL:   pageTTL,
	}
}

func pageKey(userID string) string {
	return "portfolio:page:" + userID
}

// InvalidatePage drops the cached public page for a tenant.
func (s *PortfolioService) InvalidatePage(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, pageKey(userID)); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("page cache delete failed")
	}
}

// PortfolioView is the public page payload: every visible section plus
// the appearance settings, assembled in one shot.
type PortfolioView struct {
	Profile     *entity.Profile        `json:"profile"`
	Contact     *entity.ContactInfo    `json:"contact"`
	SocialLinks []entity.SocialLink    `json:"social_links"`
	Expertise   []entity.Expertise     `json:"expertise"`
	Experiences []entity.Experience    `json:"experiences"`
	Education   []entity.Education     `json:"education"`
	Skills      []entity.Skill         `json:"skills"`
	Projects    []entity.Project       `json:"projects"`
	Custom      []entity.CustomSection `json:"custom_sections"`
	Settings    *entity.SiteSettings   `json:"settings"`
}

// BuildView assembles the public page for a tenant, read-through cached
// in Redis. A Redis failure degrades to a direct build.
func (s *PortfolioService) BuildView(ctx context.Context, userID string) (*PortfolioView, error) {
	if s.Redis != nil {
		var cached PortfolioView
		hit, err := helpers.RedisGetJSON(ctx, s.Redis, pageKey(userID), &cached)
		if err != nil {
			s.Logger.WithError(err).Warn("page cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	v := &PortfolioView{}
	var err error
	if v.Profile, err = s.optionalProfile(ctx, userID); err != nil {
		return nil, err
	}
	if v.Contact, err = s.optionalContact(ctx, userID); err != nil {
		return nil, err
	}
	if v.SocialLinks, err = s.Repo.ListSocialLinks(ctx, userID); err != nil {
		return nil, err
	}
	if v.Expertise, err = s.Repo.ListExpertise(ctx, userID); err != nil {
		return nil, err
	}
	if v.Experiences, err = s.Repo.ListExperiences(ctx, userID); err != nil {
		return nil, err
	}
	if v.Education, err = s.Repo.ListEducation(ctx, userID); err != nil {
		return nil, err
	}
	if v.Skills, err = s.Repo.ListSkills(ctx, userID); err != nil {
		return nil, err
	}
	if v.Projects, err = s.Repo.ListProjects(ctx, userID); err != nil {
		return nil, err
	}
	if v.Custom, err = s.Repo.ListCustomSections(ctx, userID, true); err != nil {
		return nil, err
	}
	v.Settings, err = s.Themes.GetSettings(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		v.Settings = entity.DefaultSiteSettings(userID)
	} else if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, pageKey(userID), v, s.PageTTL); err != nil {
			s.Logger.WithError(err).Warn("page cache write failed")
		}
	}
	return v, nil
}

func (s *PortfolioService) optionalProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := s.Repo.GetProfile(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

func (s *PortfolioService) optionalContact(ctx context.Context, userID string) (*entity.ContactInfo, error) {
	c, err := s.Repo.GetContact(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

// ---- Profile / contact ----

func (s *PortfolioService) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := s.Repo.GetProfile(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		// Lazily created; editors start from an empty block.
		return &entity.Profile{UserID: userID}, nil
	}
	return p, err
}

func (s *PortfolioService) SaveProfile(ctx context.Context, p *entity.Profile) error {
	if err := s.Repo.UpsertProfile(ctx, p); err != nil {
		return err
	}
	s.InvalidatePage(ctx, p.UserID)
	return nil
}

func (s *PortfolioService) GetContact(ctx context.Context, userID string) (*entity.ContactInfo, error) {
	c, err := s.Repo.GetContact(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return &entity.ContactInfo{UserID: userID}, nil
	}
	return c, err
}

func (s *PortfolioService) SaveContact(ctx context.Context, c *entity.ContactInfo) error {
	if err := s.Repo.UpsertContact(ctx, c); err != nil {
		return err
	}
	s.InvalidatePage(ctx, c.UserID)
	return nil
}

// ---- Ordered collections ----
//
// The handlers bind and validate; these wrappers exist to keep the page
// cache coherent and to map ErrNotFound uniformly.

func (s *PortfolioService) mutated(ctx context.Context, userID string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrSectionNotFound
	}
	if err != nil {
		return err
	}
	s.InvalidatePage(ctx, userID)
	return nil
}

func (s *PortfolioService) ListSocialLinks(ctx context.Context, userID string) ([]entity.SocialLink, error) {
	return s.Repo.ListSocialLinks(ctx, userID)
}

func (s *PortfolioService) CreateSocialLink(ctx context.Context, l *entity.SocialLink) error {
	return s.mutated(ctx, l.UserID, s.Repo.CreateSocialLink(ctx, l))
}

func (s *PortfolioService) UpdateSocialLink(ctx context.Context, l *entity.SocialLink) error {
	return s.mutated(ctx, l.UserID, s.Repo.UpdateSocialLink(ctx, l))
}

func (s *PortfolioService) DeleteSocialLink(ctx context.Context, userID, id string) error {
	return s.mutated(ctx, userID, s.Repo.DeleteSocialLink(ctx, userID, id))
}

func (s *PortfolioService) ListExpertise(ctx context.Context, userID string) ([]entity.Expertise, error) {
	return s.Repo.ListExpertise(ctx, userID)
}

func (s *PortfolioService) CreateExpertise(ctx context.Context, e *entity.Expertise) error {
	return s.mutated(ctx, e.UserID, s.Repo.CreateExpertise(ctx, e))
}

func (s *PortfolioService) UpdateExpertise(ctx context.Context, e *entity.Expertise) error {
	return s.mutated(ctx, e.UserID, s.Repo.UpdateExpertise(ctx, e))
}

func (s *PortfolioService) DeleteExpertise(ctx context.Context, userID, id string) error {
	return s.mutated(ctx, userID, s.Repo.DeleteExpertise(ctx, userID, id))
}

func (s *PortfolioService) ListExperiences(ctx context.Context, userID string) ([]entity.Experience, error) {
	return s.Repo.ListExperiences(ctx, userID)
}

func (s *PortfolioService) CreateExperience(ctx context.Context, e *entity.Experience) error {
	return s.mutated(ctx, e.UserID, s.Repo.CreateExperience(ctx, e))
}

func (s *PortfolioService) UpdateExperience(ctx context.Context, e *entity.Experience) error {
	return s.mutated(ctx, e.UserID, s.Repo.UpdateExperience(ctx, e))
}

func (s *PortfolioService) DeleteExperience(ctx context.Context, userID, id string) error {
	return s.mutated(ctx, userID, s.Repo.DeleteExperience(ctx, userID, id))
}

func (s *PortfolioService) ListEducation(ctx context.Context, userID string) ([]entity.Education, error) {
	return s.Repo.ListEducation(ctx, userID)
}

func (s *PortfolioService) CreateEducation(ctx context.Context, e *entity.Education) error {
	return s.mutated(ctx, e.UserID, s.Repo.CreateEducation(ctx, e))
}

func (s *PortfolioService) UpdateEducation(ctx context.Context, e *entity.Education) error {
	return s.mutated(ctx, e.UserID, s.Repo.UpdateEducation(ctx, e))
}

func (s *PortfolioService) DeleteEducation(ctx context.Context, userID, id string) error {
	return s.mutated(ctx, userID, s.Repo.DeleteEducation(ctx, userID, id))
}

func (s *PortfolioService) ListSkills(ctx context.Context, userID string) ([]entity.Skill, error) {
	return s.Repo.ListSkills(ctx, userID)
}

func (s *PortfolioService) CreateSkill(ctx context.Context, sk *entity.Skill) error {
	return s.mutated(ctx, sk.UserID, s.Repo.CreateSkill(ctx, sk))
}

func (s *PortfolioService) UpdateSkill(ctx context.Context, sk *entity.Skill) error {
	return s.mutated(ctx, sk.UserID, s.Repo.UpdateSkill(ctx, sk))
}

func (s *PortfolioService) DeleteSkill(ctx context.Context, userID, id string) error {
	return s.mutated(ctx, userID, s.Repo.DeleteSkill(ctx, userID, id))
}

func (s *PortfolioService) ListProjects(ctx context.Context, userID string) ([]entity.Project, error) {
	return s.Repo.ListProjects(ctx, userID)
}

func (s *PortfolioService) CreateProject(ctx context.Context, p *entity.Project) error {
	return s.mutated(ctx, p.UserID, s.Repo.CreateProject(ctx, p))
}

func (s *PortfolioService) UpdateProject(ctx context.Context, p *entity.Project) error {
	return s.mutated(ctx, p.UserID, s.Repo.UpdateProject(ctx, p))
}

func (s *PortfolioService) DeleteProject(ctx context.Context, userID, id string) error {
	return s.mutated(ctx, userID, s.Repo.DeleteProject(ctx, userID, id))
}

// ---- Custom sections ----

var slugCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a url-safe slug from a title.
func Slugify(title string) string {
	s := slugCleanRe.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

func (s *PortfolioService) ListCustomSections(ctx context.Context, userID string) ([]entity.CustomSection, error) {
	return s.Repo.ListCustomSections(ctx, userID, false)
}

func (s *PortfolioService) GetCustomSection(ctx context.Context, userID, id string) (*entity.CustomSection, error) {
	sec, err := s.Repo.GetCustomSection(ctx, userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrSectionNotFound
	}
	return sec, err
}

// CreateCustomSection derives a unique slug from the title, suffixing a
// counter on collision.
func (s *PortfolioService) CreateCustomSection(ctx context.Context, sec *entity.CustomSection) error {
	base := sec.Slug
	if base == "" {
		base = Slugify(sec.Title)
	}
	if base == "" {
		base = "section"
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := s.Repo.SlugExists(ctx, sec.UserID, slug)
		if err != nil {
			return err
		}
		if !taken {
			break
		}
		if sec.Slug != "" {
			// Explicit slugs are not auto-suffixed.
			return ErrSlugTaken
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	sec.Slug = slug
	return s.mutated(ctx, sec.UserID, s.Repo.CreateCustomSection(ctx, sec))
}

// UpdateCustomSection persists edits, keeping the stored slug when the
// request omits one and refusing a slug another section already uses.
func (s *PortfolioService) UpdateCustomSection(ctx context.Context, sec *entity.CustomSection) error {
	cur, err := s.Repo.GetCustomSection(ctx, sec.UserID, sec.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrSectionNotFound
	}
	if err != nil {
		return err
	}
	if sec.Slug == "" {
		sec.Slug = cur.Slug
	}
	if sec.Slug != cur.Slug {
		taken, err := s.Repo.SlugExists(ctx, sec.UserID, sec.Slug)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlugTaken
		}
	}
	return s.mutated(ctx, sec.UserID, s.Repo.UpdateCustomSection(ctx, sec))
}

func (s *PortfolioService) DeleteCustomSection(ctx context.Context, userID, id string) error {
	return s.mutated(ctx, userID, s.Repo.DeleteCustomSection(ctx, userID, id))
}

func (s *PortfolioService) CreateCustomItem(ctx context.Context, userID string, it *entity.CustomItem) error {
	return s.mutated(ctx, userID, s.Repo.CreateCustomItem(ctx, userID, it))
}

func (s *PortfolioService) UpdateCustomItem(ctx context.Context, userID string, it *entity.CustomItem) error {
	return s.mutated(ctx, userID, s.Repo.UpdateCustomItem(ctx, userID, it))
}

func (s *PortfolioService) DeleteCustomItem(ctx context.Context, userID, id string) error {
	return s.mutated(ctx, userID, s.Repo.DeleteCustomItem(ctx, userID, id))
}

func (s *PortfolioService) ReorderSections(ctx context.Context, userID string, orderedIDs []string) error {
	return s.mutated(ctx, userID, s.Repo.UpdateSectionOrder(ctx, userID, orderedIDs))
}

// UploadImage stores a section icon or profile photo in GCS and returns
// its public URL.
func (s *PortfolioService) UploadImage(ctx context.Context, userID, kind string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", ErrUploadDisabled
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join(kind, userID, uuid.NewString()+ext))
	return helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
}
