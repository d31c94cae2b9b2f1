package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	repo "github.com/portfoliopro/portfoliopro/internal/domain/repository"
	"github.com/portfoliopro/portfoliopro/internal/tenancy"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
	"github.com/portfoliopro/portfoliopro/pkg/mailer"
)

var (
	ErrSelfTarget       = errors.New("cannot target own account")
	ErrSuperadminTarget = errors.New("cannot ban a superadmin")
	ErrInvalidRole      = errors.New("unknown role")
)

// AdminService backs the superadmin panel: platform stats, the user list,
// moderation actions and impersonation.
type AdminService struct {
	Users     repo.UserRepository
	Content   repo.PortfolioRepository
	Accounts  *AccountService
	Tenants   TenantInvalidator
	Emails    EmailQueue
	Logger    *logrus.Logger
	ES        *elasticsearch.Client
	ESIndex   string
	ImpersTTL time.Duration
}

func NewAdminService(users repo.UserRepository, content repo.PortfolioRepository, accounts *AccountService, tenants TenantInvalidator, emails EmailQueue, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, impersTTL time.Duration) *AdminService {
	return &AdminService{
		Users:     users,
		Content:   content,
		Accounts:  accounts,
		Tenants:   tenants,
		Emails:    emails,
		Logger:    logger,
		ES:        es,
		ESIndex:   esIndex,
		ImpersTTL: impersTTL,
	}
}

// DashboardStats is the aggregate block on the superadmin dashboard.
type DashboardStats struct {
	Users   repo.UserStats    `json:"users"`
	Content repo.ContentStats `json:"content"`
	Recent  []*entity.User    `json:"recent_users"`
}

func (s *AdminService) Stats(ctx context.Context) (*DashboardStats, error) {
	us, err := s.Users.Stats(ctx)
	if err != nil {
		return nil, err
	}
	cs, err := s.Content.ContentStats(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.Users.Recent(ctx, 10)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{Users: us, Content: cs, Recent: recent}, nil
}

// ListUsers serves the filtered, paginated user list. Free-text search
// goes through Elasticsearch when available and falls back to SQL LIKE.
func (s *AdminService) ListUsers(ctx context.Context, f repo.UserFilter) ([]*entity.User, int64, error) {
	if f.Search != "" && s.ES != nil && s.ESIndex != "" {
		ids, total, err := s.searchUsers(ctx, f)
		if err != nil {
			s.Logger.WithError(err).Warn("es search failed, falling back to sql")
		} else {
			users := make([]*entity.User, 0, len(ids))
			for _, id := range ids {
				u, err := s.Users.GetByID(ctx, id)
				if errors.Is(err, repo.ErrNotFound) {
					continue // stale index entry
				}
				if err != nil {
					return nil, 0, err
				}
				if matchesFilter(u, f) {
					users = append(users, u)
				}
			}
			return users, total, nil
		}
	}
	return s.Users.List(ctx, f)
}

func matchesFilter(u *entity.User, f repo.UserFilter) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	switch f.Status {
	case "active":
		return u.IsActive && !u.IsBanned
	case "banned":
		return u.IsBanned
	case "inactive":
		return !u.IsActive
	}
	return true
}

func (s *AdminService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// target loads a moderation target and refuses self-moderation.
func (s *AdminService) target(ctx context.Context, adminID, userID string) (*entity.User, error) {
	if adminID == userID {
		return nil, ErrSelfTarget
	}
	return s.GetUser(ctx, userID)
}

// Ban suspends a tenant. The portfolio disappears as soon as the
// resolver cache entry is dropped.
func (s *AdminService) Ban(ctx context.Context, adminID, userID string) (*entity.User, error) {
	u, err := s.target(ctx, adminID, userID)
	if err != nil {
		return nil, err
	}
	if u.Role == entity.RoleSuperadmin {
		return nil, ErrSuperadminTarget
	}
	u.IsBanned = true
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.afterModeration(ctx, u)
	s.sendMail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateSuspended,
		Data:     map[string]any{"Username": u.Username},
	})
	s.Logger.WithFields(logrus.Fields{"admin_id": adminID, "user_id": u.ID}).Info("user banned")
	return u, nil
}

func (s *AdminService) Unban(ctx context.Context, adminID, userID string) (*entity.User, error) {
	u, err := s.target(ctx, adminID, userID)
	if err != nil {
		return nil, err
	}
	u.IsBanned = false
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.afterModeration(ctx, u)
	s.Logger.WithFields(logrus.Fields{"admin_id": adminID, "user_id": u.ID}).Info("user unbanned")
	return u, nil
}

func (s *AdminService) ToggleActive(ctx context.Context, adminID, userID string) (*entity.User, error) {
	u, err := s.target(ctx, adminID, userID)
	if err != nil {
		return nil, err
	}
	u.IsActive = !u.IsActive
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.afterModeration(ctx, u)
	return u, nil
}

func (s *AdminService) ChangeRole(ctx context.Context, adminID, userID string, role entity.Role) (*entity.User, error) {
	if role != entity.RoleUser && role != entity.RoleSuperadmin {
		return nil, ErrInvalidRole
	}
	u, err := s.target(ctx, adminID, userID)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.indexUser(ctx, u)
	return u, nil
}

// ChangeSubdomain renames a tenant's site. Both the old and the new
// label are dropped from the resolver cache.
func (s *AdminService) ChangeSubdomain(ctx context.Context, adminID, userID, subdomain string) (*entity.User, error) {
	sub := strings.ToLower(strings.TrimSpace(subdomain))
	if len(sub) < 3 || !tenancy.ValidLabel(sub) {
		return nil, ErrSubdomainInvalid
	}
	if s.Tenants != nil && s.Tenants.IsReserved(sub) {
		return nil, ErrSubdomainReserved
	}
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == u.Subdomain {
		return u, nil
	}
	if taken, err := s.Users.SubdomainTaken(ctx, sub); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrSubdomainTaken
	}
	old := u.Subdomain
	u.Subdomain = sub
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	if s.Tenants != nil {
		s.Tenants.Invalidate(ctx, old)
		s.Tenants.Invalidate(ctx, sub)
	}
	s.indexUser(ctx, u)
	s.Logger.WithFields(logrus.Fields{"admin_id": adminID, "user_id": u.ID, "from": old, "to": sub}).Info("subdomain changed")
	return u, nil
}

// ResetPassword sets a random temporary password and mails it to the user.
func (s *AdminService) ResetPassword(ctx context.Context, adminID, userID string) (*entity.User, error) {
	u, err := s.target(ctx, adminID, userID)
	if err != nil {
		return nil, err
	}
	temp, err := helpers.TempPassword(9)
	if err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(temp)
	if err != nil {
		return nil, err
	}
	u.Password = hash
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.sendMail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateTempPassword,
		Data:     map[string]any{"Username": u.Username, "TempPassword": temp},
	})
	s.Logger.WithFields(logrus.Fields{"admin_id": adminID, "user_id": u.ID}).Info("password reset")
	return u, nil
}

// Impersonate mints a short-lived token pair for the target account.
// The admin's id is carried in the claims for audit logging.
func (s *AdminService) Impersonate(ctx context.Context, adminID, userID string) (*entity.User, TokenPair, error) {
	u, err := s.target(ctx, adminID, userID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if u.IsBanned || !u.IsActive {
		return nil, TokenPair{}, ErrAccountSuspended
	}
	pair, err := s.Accounts.ImpersonationTokens(ctx, u, adminID, s.ImpersTTL)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.Logger.WithFields(logrus.Fields{"admin_id": adminID, "user_id": u.ID}).Info("impersonation started")
	return u, pair, nil
}

// afterModeration keeps the resolver cache and the search index in step
// with a status change.
func (s *AdminService) afterModeration(ctx context.Context, u *entity.User) {
	if s.Tenants != nil {
		s.Tenants.Invalidate(ctx, u.Subdomain)
	}
	s.indexUser(ctx, u)
}

func (s *AdminService) sendMail(ctx context.Context, job mailer.EmailJob) {
	if s.Emails == nil {
		return
	}
	if err := s.Emails.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("template", job.Template).Warn("email publish failed")
	}
}

// IndexUser pushes a user document into the search index. Failures are
// logged and swallowed; the SQL fallback still serves the list.
func (s *AdminService) IndexUser(ctx context.Context, u *entity.User) {
	s.indexUser(ctx, u)
}

func (s *AdminService) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"subdomain":  u.Subdomain,
		"role":       string(u.Role),
		"is_active":  u.IsActive,
		"is_banned":  u.IsBanned,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

// searchUsers runs the filtered query against the index with the same
// page and size normalization the SQL path applies, so both paths serve
// the same pagination contract.
func (s *AdminService) searchUsers(ctx context.Context, f repo.UserFilter) ([]string, int64, error) {
	size := f.Size
	if size <= 0 || size > 100 {
		size = 20
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	must := []any{map[string]any{
		"multi_match": map[string]any{
			"query":  f.Search,
			"fields": []string{"username^2", "email^2", "subdomain"},
		},
	}}
	filter := []any{}
	if f.Role != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"role": string(f.Role)}})
	}
	switch f.Status {
	case "active":
		filter = append(filter,
			map[string]any{"term": map[string]any{"is_active": true}},
			map[string]any{"term": map[string]any{"is_banned": false}})
	case "banned":
		filter = append(filter, map[string]any{"term": map[string]any{"is_banned": true}})
	case "inactive":
		filter = append(filter, map[string]any{"term": map[string]any{"is_active": false}})
	}

	query := map[string]any{
		"query":            map[string]any{"bool": map[string]any{"must": must, "filter": filter}},
		"from":             (page - 1) * size,
		"size":             size,
		"track_total_hits": true,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, parsed.Hits.Total.Value, nil
}
