package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	repo "github.com/portfoliopro/portfoliopro/internal/domain/repository"
	"github.com/portfoliopro/portfoliopro/internal/tenancy"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
	"github.com/portfoliopro/portfoliopro/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrSubdomainInvalid   = errors.New("subdomain invalid")
	ErrSubdomainReserved  = errors.New("subdomain reserved")
	ErrSubdomainTaken     = errors.New("subdomain taken")
	ErrEmailTaken         = errors.New("email taken")
	ErrUsernameTaken      = errors.New("username taken")
	ErrWeakPassword       = errors.New("password too weak")
)

// EmailQueue is the outbound mail publisher. Satisfied by helpers.RabbitPublisher.
type EmailQueue interface {
	PublishJSON(ctx context.Context, v any) error
}

// TenantInvalidator drops the resolver cache entry for a subdomain.
// Satisfied by tenancy.Resolver.
type TenantInvalidator interface {
	Invalidate(ctx context.Context, subdomain string)
	IsReserved(label string) bool
}

// AccountService covers registration, login, token refresh and account
// settings for tenant owners.
type AccountService struct {
	Users      repo.UserRepository
	JWT        *helpers.JWTManager
	Redis      *redis.Client
	Logger     *logrus.Logger
	Emails     EmailQueue
	Tenants    TenantInvalidator
	BaseDomain string
	SessionTTL time.Duration
}

func NewAccountService(users repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, emails EmailQueue, tenants TenantInvalidator, baseDomain string, sessionTTL time.Duration) *AccountService {
	return &AccountService{
		Users:      users,
		JWT:        jwt,
		Redis:      rdb,
		Logger:     logger,
		Emails:     emails,
		Tenants:    tenants,
		BaseDomain: baseDomain,
		SessionTTL: sessionTTL,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Subdomain string
}

// Register creates a tenant account. The subdomain is claimed first come
// first served; deactivated accounts keep their claim.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	sub := strings.ToLower(strings.TrimSpace(in.Subdomain))
	if len(sub) < 3 || !tenancy.ValidLabel(sub) {
		return nil, ErrSubdomainInvalid
	}
	if s.Tenants != nil && s.Tenants.IsReserved(sub) {
		return nil, ErrSubdomainReserved
	}
	if !helpers.StrongEnough(in.Password) {
		return nil, ErrWeakPassword
	}

	if taken, err := s.Users.SubdomainTaken(ctx, sub); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrSubdomainTaken
	}
	if taken, err := s.Users.EmailTaken(ctx, in.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}
	if _, err := s.Users.GetByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Username:  in.Username,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Password:  hash,
		Subdomain: sub,
		Role:      entity.RoleUser,
		IsActive:  true,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	// A visitor may have hit the subdomain before signup and left a
	// negative entry in the resolver cache.
	if s.Tenants != nil {
		s.Tenants.Invalidate(ctx, sub)
	}

	s.sendMail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data: map[string]any{
			"Username":   u.Username,
			"Subdomain":  u.Subdomain,
			"BaseDomain": s.BaseDomain,
		},
	})

	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "subdomain": u.Subdomain}).Info("tenant registered")
	return u, nil
}

// CheckSubdomain reports whether a label could be claimed right now:
// "invalid", "reserved", "taken" or "available".
func (s *AccountService) CheckSubdomain(ctx context.Context, subdomain string) (string, error) {
	sub := strings.ToLower(strings.TrimSpace(subdomain))
	if len(sub) < 3 || !tenancy.ValidLabel(sub) {
		return "invalid", nil
	}
	if s.Tenants != nil && s.Tenants.IsReserved(sub) {
		return "reserved", nil
	}
	taken, err := s.Users.SubdomainTaken(ctx, sub)
	if err != nil {
		return "", err
	}
	if taken {
		return "taken", nil
	}
	return "available", nil
}

// Authenticate validates email/password. Banned and deactivated accounts
// cannot log in.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if u.IsBanned || !u.IsActive {
		return nil, ErrAccountSuspended
	}
	return u, nil
}

// IssueTokens generates an access/refresh pair and records the session in Redis.
func (s *AccountService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	return s.issueTokens(ctx, u, "", 0)
}

func (s *AccountService) issueTokens(ctx context.Context, u *entity.User, impersonatorID string, ttl time.Duration) (TokenPair, error) {
	sid := uuid.NewString()
	id := helpers.Identity{
		UserID:         u.ID,
		SessionID:      sid,
		Subdomain:      u.Subdomain,
		Role:           u.Role,
		ImpersonatorID: impersonatorID,
	}

	var (
		access, refresh string
		aexp, rexp      time.Time
		err             error
	)
	if ttl > 0 {
		access, aexp, err = s.JWT.GenerateAccessTokenTTL(id, ttl)
		if err == nil {
			refresh, rexp, err = s.JWT.GenerateRefreshTokenTTL(id, ttl)
		}
	} else {
		access, aexp, err = s.JWT.GenerateAccessToken(id)
		if err == nil {
			refresh, rexp, err = s.JWT.GenerateRefreshToken(id)
		}
	}
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("token generation failed")
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"username":   u.Username,
			"subdomain":  u.Subdomain,
			"role":       string(u.Role),
			"sid":        sid,
			"imp":        impersonatorID,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, s.SessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// ImpersonationTokens mints a short-lived pair for the target account
// with the impersonating superadmin recorded in the claims.
func (s *AccountService) ImpersonationTokens(ctx context.Context, target *entity.User, adminID string, ttl time.Duration) (TokenPair, error) {
	return s.issueTokens(ctx, target, adminID, ttl)
}

// EndImpersonation re-issues the impersonating admin's own token pair,
// returning the session to their account.
func (s *AccountService) EndImpersonation(ctx context.Context, adminID string) (*entity.User, TokenPair, error) {
	admin, err := s.GetAccount(ctx, adminID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if admin.IsBanned || !admin.IsActive {
		return nil, TokenPair{}, ErrAccountSuspended
	}
	pair, err := s.IssueTokens(ctx, admin)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.Logger.WithField("admin_id", adminID).Info("impersonation ended")
	return admin, pair, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the session id and issues a fresh token pair. The
// refresh token's sid must match the current session.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*entity.User, TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if u.IsBanned || !u.IsActive {
		return nil, TokenPair{}, ErrAccountSuspended
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
	}
	pair, err := s.issueTokens(ctx, u, claims.ImpersonatorID, 0)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Logout drops the Redis session, which invalidates every outstanding
// token pair for the user.
func (s *AccountService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

func (s *AccountService) GetAccount(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

type UpdateAccountInput struct {
	Username string
	Email    string
}

func (s *AccountService) UpdateAccount(ctx context.Context, userID string, in UpdateAccountInput) (*entity.User, error) {
	u, err := s.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Email != "" && !strings.EqualFold(in.Email, u.Email) {
		if taken, err := s.Users.EmailTaken(ctx, in.Email); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrEmailTaken
		}
		u.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.Username != "" && in.Username != u.Username {
		if _, err := s.Users.GetByUsername(ctx, in.Username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		u.Username = in.Username
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword verifies the current password before setting the new one.
func (s *AccountService) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.GetAccount(ctx, userID)
	if err != nil {
		return err
	}
	if !helpers.CompareHashAndPassword(u.Password, current) {
		return ErrInvalidCredentials
	}
	if !helpers.StrongEnough(next) {
		return ErrWeakPassword
	}
	hash, err := helpers.HashPassword(next)
	if err != nil {
		return err
	}
	u.Password = hash
	return s.Users.Update(ctx, u)
}

func (s *AccountService) sendMail(ctx context.Context, job mailer.EmailJob) {
	if s.Emails == nil {
		return
	}
	if err := s.Emails.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("template", job.Template).Warn("email publish failed")
	}
}
