package application

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	repo "github.com/portfoliopro/portfoliopro/internal/domain/repository"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
)

type fakeUserRepo struct {
	byID        map[string]*entity.User
	byEmail     map[string]*entity.User
	byUsername  map[string]*entity.User
	bySubdomain map[string]*entity.User
	created     []*entity.User
	updated     []*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	f := &fakeUserRepo{
		byID:        map[string]*entity.User{},
		byEmail:     map[string]*entity.User{},
		byUsername:  map[string]*entity.User{},
		bySubdomain: map[string]*entity.User{},
	}
	for _, u := range users {
		f.index(u)
	}
	return f
}

func (f *fakeUserRepo) index(u *entity.User) {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	f.byUsername[u.Username] = u
	f.bySubdomain[u.Subdomain] = u
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	u.ID = "user-" + u.Username
	u.CreatedAt = time.Now()
	f.index(u)
	f.created = append(f.created, u)
	return nil
}

func (f *fakeUserRepo) get(m map[string]*entity.User, key string) (*entity.User, error) {
	if u, ok := m[key]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.get(f.byID, id)
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.get(f.byEmail, email)
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return f.get(f.byUsername, username)
}

func (f *fakeUserRepo) FindTenant(_ context.Context, subdomain string) (*entity.User, error) {
	u, err := f.get(f.bySubdomain, subdomain)
	if err != nil || !u.CanServePortfolio() {
		return nil, repo.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) SubdomainTaken(_ context.Context, subdomain string) (bool, error) {
	_, ok := f.bySubdomain[subdomain]
	return ok, nil
}

func (f *fakeUserRepo) EmailTaken(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.index(u)
	f.updated = append(f.updated, u)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _ repo.UserFilter) ([]*entity.User, int64, error) {
	out := make([]*entity.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) Recent(_ context.Context, _ int) ([]*entity.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Stats(_ context.Context) (repo.UserStats, error) {
	return repo.UserStats{TotalUsers: int64(len(f.byID))}, nil
}

type fakeInvalidator struct {
	invalidated []string
	reserved    map[string]bool
}

func (f *fakeInvalidator) Invalidate(_ context.Context, subdomain string) {
	f.invalidated = append(f.invalidated, subdomain)
}

func (f *fakeInvalidator) IsReserved(label string) bool { return f.reserved[label] }

type fakeQueue struct {
	published []any
}

func (f *fakeQueue) PublishJSON(_ context.Context, v any) error {
	f.published = append(f.published, v)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newAccountService(users *fakeUserRepo, inv *fakeInvalidator, q *fakeQueue) *AccountService {
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	return NewAccountService(users, jwt, nil, quietLogger(), q, inv, "example.test", time.Hour)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := helpers.HashPassword(plain)
	require.NoError(t, err)
	return h
}

func TestRegister(t *testing.T) {
	t.Run("creates tenant and queues welcome email", func(t *testing.T) {
		users := newFakeUserRepo()
		inv := &fakeInvalidator{reserved: map[string]bool{"www": true}}
		q := &fakeQueue{}
		svc := newAccountService(users, inv, q)

		u, err := svc.Register(context.Background(), RegisterInput{
			Username:  "jane",
			Email:     "Jane@Example.com",
			Password:  "longenough99",
			Subdomain: "Jane-Doe",
		})
		require.NoError(t, err)
		assert.Equal(t, "jane-doe", u.Subdomain)
		assert.Equal(t, "jane@example.com", u.Email)
		assert.Equal(t, entity.RoleUser, u.Role)
		assert.True(t, u.IsActive)

		// negative resolver cache entry must be dropped
		assert.Equal(t, []string{"jane-doe"}, inv.invalidated)
		require.Len(t, q.published, 1)
	})

	t.Run("rejects reserved subdomain", func(t *testing.T) {
		svc := newAccountService(newFakeUserRepo(), &fakeInvalidator{reserved: map[string]bool{"www": true}}, &fakeQueue{})
		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "jane", Email: "j@example.com", Password: "longenough99", Subdomain: "www",
		})
		assert.ErrorIs(t, err, ErrSubdomainReserved)
	})

	t.Run("rejects malformed subdomain", func(t *testing.T) {
		svc := newAccountService(newFakeUserRepo(), &fakeInvalidator{}, &fakeQueue{})
		for _, sub := range []string{"ab", "-jane", "jane-", "ja.ne", "Jane Doe!"} {
			_, err := svc.Register(context.Background(), RegisterInput{
				Username: "jane", Email: "j@example.com", Password: "longenough99", Subdomain: sub,
			})
			assert.ErrorIs(t, err, ErrSubdomainInvalid, "subdomain %q", sub)
		}
	})

	t.Run("rejects taken subdomain even for inactive owner", func(t *testing.T) {
		owner := &entity.User{ID: "u1", Username: "old", Email: "old@example.com", Subdomain: "jane", IsActive: false}
		svc := newAccountService(newFakeUserRepo(owner), &fakeInvalidator{}, &fakeQueue{})
		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "jane", Email: "j@example.com", Password: "longenough99", Subdomain: "jane",
		})
		assert.ErrorIs(t, err, ErrSubdomainTaken)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		svc := newAccountService(newFakeUserRepo(), &fakeInvalidator{}, &fakeQueue{})
		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "jane", Email: "j@example.com", Password: "short1", Subdomain: "jane",
		})
		assert.ErrorIs(t, err, ErrWeakPassword)
	})
}

func TestCheckSubdomain(t *testing.T) {
	owner := &entity.User{ID: "u1", Username: "jane", Email: "jane@example.com", Subdomain: "jane", IsActive: true}
	svc := newAccountService(newFakeUserRepo(owner), &fakeInvalidator{reserved: map[string]bool{"www": true}}, &fakeQueue{})
	ctx := context.Background()

	cases := map[string]string{
		"jane":     "taken",
		"www":      "reserved",
		"-bad-":    "invalid",
		"ab":       "invalid",
		"Fresh-01": "available",
	}
	for sub, want := range cases {
		got, err := svc.CheckSubdomain(ctx, sub)
		require.NoError(t, err)
		assert.Equal(t, want, got, "subdomain %q", sub)
	}
}

func TestAuthenticate(t *testing.T) {
	base := func() *entity.User {
		return &entity.User{
			ID: "u1", Username: "jane", Email: "jane@example.com",
			Subdomain: "jane", Role: entity.RoleUser, IsActive: true,
		}
	}

	t.Run("valid credentials", func(t *testing.T) {
		u := base()
		u.Password = mustHash(t, "longenough99")
		svc := newAccountService(newFakeUserRepo(u), &fakeInvalidator{}, &fakeQueue{})
		got, err := svc.Authenticate(context.Background(), "jane@example.com", "longenough99")
		require.NoError(t, err)
		assert.Equal(t, "u1", got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		u := base()
		u.Password = mustHash(t, "longenough99")
		svc := newAccountService(newFakeUserRepo(u), &fakeInvalidator{}, &fakeQueue{})
		_, err := svc.Authenticate(context.Background(), "jane@example.com", "wrongpass99")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc := newAccountService(newFakeUserRepo(), &fakeInvalidator{}, &fakeQueue{})
		_, err := svc.Authenticate(context.Background(), "nobody@example.com", "longenough99")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("banned account", func(t *testing.T) {
		u := base()
		u.Password = mustHash(t, "longenough99")
		u.IsBanned = true
		svc := newAccountService(newFakeUserRepo(u), &fakeInvalidator{}, &fakeQueue{})
		_, err := svc.Authenticate(context.Background(), "jane@example.com", "longenough99")
		assert.ErrorIs(t, err, ErrAccountSuspended)
	})
}

func TestIssueTokens(t *testing.T) {
	u := &entity.User{ID: "u1", Username: "jane", Subdomain: "jane", Role: entity.RoleUser, IsActive: true}
	svc := newAccountService(newFakeUserRepo(u), &fakeInvalidator{}, &fakeQueue{})

	pair, err := svc.IssueTokens(context.Background(), u)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "jane", claims.Subdomain)
	assert.Equal(t, entity.RoleUser, claims.Role)
	assert.False(t, claims.Impersonated())
}

func TestImpersonationTokens(t *testing.T) {
	target := &entity.User{ID: "u2", Username: "mark", Subdomain: "mark", Role: entity.RoleUser, IsActive: true}
	svc := newAccountService(newFakeUserRepo(target), &fakeInvalidator{}, &fakeQueue{})

	pair, err := svc.ImpersonationTokens(context.Background(), target, "admin-1", 30*time.Minute)
	require.NoError(t, err)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u2", claims.UserID)
	assert.Equal(t, "admin-1", claims.ImpersonatorID)
	assert.True(t, claims.Impersonated())
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), pair.AccessTokenExpiry, 5*time.Second)
}

func TestEndImpersonation(t *testing.T) {
	admin := &entity.User{ID: "admin-1", Username: "boss", Subdomain: "boss", Role: entity.RoleSuperadmin, IsActive: true}
	svc := newAccountService(newFakeUserRepo(admin), &fakeInvalidator{}, &fakeQueue{})

	got, pair, err := svc.EndImpersonation(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", got.ID)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.UserID)
	assert.False(t, claims.Impersonated())
}

func TestChangePassword(t *testing.T) {
	u := &entity.User{ID: "u1", Username: "jane", Email: "jane@example.com", IsActive: true}
	u.Password = mustHash(t, "oldpassword1")
	users := newFakeUserRepo(u)
	svc := newAccountService(users, &fakeInvalidator{}, &fakeQueue{})

	err := svc.ChangePassword(context.Background(), "u1", "wrong", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), "u1", "oldpassword1", "weak")
	assert.ErrorIs(t, err, ErrWeakPassword)

	err = svc.ChangePassword(context.Background(), "u1", "oldpassword1", "newpassword1")
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "newpassword1"))
}
