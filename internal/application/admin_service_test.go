package application

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	repo "github.com/portfoliopro/portfoliopro/internal/domain/repository"
	"github.com/portfoliopro/portfoliopro/pkg/helpers"
	"github.com/portfoliopro/portfoliopro/pkg/mailer"
)

func newAdminService(users *fakeUserRepo, inv *fakeInvalidator, q *fakeQueue) *AdminService {
	accounts := newAccountService(users, inv, q)
	return NewAdminService(users, nil, accounts, inv, q, quietLogger(), nil, "", 30*time.Minute)
}

func tenant(id, sub string) *entity.User {
	return &entity.User{
		ID: id, Username: sub, Email: sub + "@example.com",
		Subdomain: sub, Role: entity.RoleUser, IsActive: true,
	}
}

func TestBan(t *testing.T) {
	u := tenant("u1", "jane")
	users := newFakeUserRepo(u)
	inv := &fakeInvalidator{}
	q := &fakeQueue{}
	svc := newAdminService(users, inv, q)

	got, err := svc.Ban(context.Background(), "admin-1", "u1")
	require.NoError(t, err)
	assert.True(t, got.IsBanned)
	require.Len(t, users.updated, 1)

	// the banned tenant must vanish from resolution immediately
	assert.Equal(t, []string{"jane"}, inv.invalidated)

	require.Len(t, q.published, 1)
	job, ok := q.published[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, mailer.TemplateSuspended, job.Template)
	assert.Equal(t, "jane@example.com", job.To)
}

func TestModerationSelfTarget(t *testing.T) {
	u := tenant("admin-1", "boss")
	u.Role = entity.RoleSuperadmin
	svc := newAdminService(newFakeUserRepo(u), &fakeInvalidator{}, &fakeQueue{})
	ctx := context.Background()

	_, err := svc.Ban(ctx, "admin-1", "admin-1")
	assert.ErrorIs(t, err, ErrSelfTarget)
	_, err = svc.ToggleActive(ctx, "admin-1", "admin-1")
	assert.ErrorIs(t, err, ErrSelfTarget)
	_, _, err = svc.Impersonate(ctx, "admin-1", "admin-1")
	assert.ErrorIs(t, err, ErrSelfTarget)
}

func TestBanSuperadminRefused(t *testing.T) {
	u := tenant("u1", "boss")
	u.Role = entity.RoleSuperadmin
	svc := newAdminService(newFakeUserRepo(u), &fakeInvalidator{}, &fakeQueue{})
	_, err := svc.Ban(context.Background(), "admin-1", "u1")
	assert.ErrorIs(t, err, ErrSuperadminTarget)
}

func TestUnban(t *testing.T) {
	u := tenant("u1", "jane")
	u.IsBanned = true
	inv := &fakeInvalidator{}
	svc := newAdminService(newFakeUserRepo(u), inv, &fakeQueue{})

	got, err := svc.Unban(context.Background(), "admin-1", "u1")
	require.NoError(t, err)
	assert.False(t, got.IsBanned)
	assert.Equal(t, []string{"jane"}, inv.invalidated)
}

func TestChangeSubdomain(t *testing.T) {
	t.Run("invalidates old and new labels", func(t *testing.T) {
		u := tenant("u1", "jane")
		inv := &fakeInvalidator{}
		svc := newAdminService(newFakeUserRepo(u), inv, &fakeQueue{})

		got, err := svc.ChangeSubdomain(context.Background(), "admin-1", "u1", "Janet")
		require.NoError(t, err)
		assert.Equal(t, "janet", got.Subdomain)
		assert.Equal(t, []string{"jane", "janet"}, inv.invalidated)
	})

	t.Run("rejects reserved label", func(t *testing.T) {
		u := tenant("u1", "jane")
		inv := &fakeInvalidator{reserved: map[string]bool{"admin": true}}
		svc := newAdminService(newFakeUserRepo(u), inv, &fakeQueue{})
		_, err := svc.ChangeSubdomain(context.Background(), "admin-1", "u1", "admin")
		assert.ErrorIs(t, err, ErrSubdomainReserved)
	})

	t.Run("rejects taken label", func(t *testing.T) {
		a, b := tenant("u1", "jane"), tenant("u2", "mark")
		svc := newAdminService(newFakeUserRepo(a, b), &fakeInvalidator{}, &fakeQueue{})
		_, err := svc.ChangeSubdomain(context.Background(), "admin-1", "u1", "mark")
		assert.ErrorIs(t, err, ErrSubdomainTaken)
	})

	t.Run("same label is a no-op", func(t *testing.T) {
		u := tenant("u1", "jane")
		inv := &fakeInvalidator{}
		svc := newAdminService(newFakeUserRepo(u), inv, &fakeQueue{})
		got, err := svc.ChangeSubdomain(context.Background(), "admin-1", "u1", "jane")
		require.NoError(t, err)
		assert.Equal(t, "jane", got.Subdomain)
		assert.Empty(t, inv.invalidated)
	})
}

func TestChangeRole(t *testing.T) {
	u := tenant("u1", "jane")
	svc := newAdminService(newFakeUserRepo(u), &fakeInvalidator{}, &fakeQueue{})
	ctx := context.Background()

	_, err := svc.ChangeRole(ctx, "admin-1", "u1", entity.Role("WIZARD"))
	assert.ErrorIs(t, err, ErrInvalidRole)

	got, err := svc.ChangeRole(ctx, "admin-1", "u1", entity.RoleSuperadmin)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSuperadmin, got.Role)
}

func TestResetPassword(t *testing.T) {
	u := tenant("u1", "jane")
	q := &fakeQueue{}
	svc := newAdminService(newFakeUserRepo(u), &fakeInvalidator{}, q)

	got, err := svc.ResetPassword(context.Background(), "admin-1", "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, got.Password)

	require.Len(t, q.published, 1)
	job := q.published[0].(mailer.EmailJob)
	assert.Equal(t, mailer.TemplateTempPassword, job.Template)
	temp, _ := job.Data["TempPassword"].(string)
	require.NotEmpty(t, temp)
	// the mailed password must match the stored hash
	assert.True(t, helpers.CompareHashAndPassword(got.Password, temp))
}

func TestImpersonate(t *testing.T) {
	t.Run("mints claims for the target", func(t *testing.T) {
		u := tenant("u1", "jane")
		svc := newAdminService(newFakeUserRepo(u), &fakeInvalidator{}, &fakeQueue{})

		got, pair, err := svc.Impersonate(context.Background(), "admin-1", "u1")
		require.NoError(t, err)
		assert.Equal(t, "u1", got.ID)

		claims, err := svc.Accounts.JWT.ParseAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, "admin-1", claims.ImpersonatorID)
	})

	t.Run("refuses suspended targets", func(t *testing.T) {
		u := tenant("u1", "jane")
		u.IsBanned = true
		svc := newAdminService(newFakeUserRepo(u), &fakeInvalidator{}, &fakeQueue{})
		_, _, err := svc.Impersonate(context.Background(), "admin-1", "u1")
		assert.ErrorIs(t, err, ErrAccountSuspended)
	})
}

func TestGetUserUnknown(t *testing.T) {
	svc := newAdminService(newFakeUserRepo(), &fakeInvalidator{}, &fakeQueue{})
	_, err := svc.GetUser(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// esStub answers every request with a canned search response and keeps
// the request bodies for inspection.
type esStub struct {
	requests [][]byte
	body     string
}

func (s *esStub) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		s.requests = append(s.requests, b)
	}
	h := http.Header{}
	h.Set("X-Elastic-Product", "Elasticsearch")
	h.Set("Content-Type", "application/json")
	return &http.Response{StatusCode: http.StatusOK, Header: h, Body: io.NopCloser(strings.NewReader(s.body))}, nil
}

func TestListUsersSearchPagination(t *testing.T) {
	users := newFakeUserRepo(tenant("u1", "jane"), tenant("u2", "janet"), tenant("u3", "janine"))
	stub := &esStub{body: `{"hits":{"total":{"value":3},"hits":[{"_id":"u2"}]}}`}
	es, err := elasticsearch.NewClient(elasticsearch.Config{Transport: stub})
	require.NoError(t, err)

	accounts := newAccountService(users, &fakeInvalidator{}, &fakeQueue{})
	svc := NewAdminService(users, nil, accounts, &fakeInvalidator{}, &fakeQueue{}, quietLogger(), es, "users", 30*time.Minute)

	got, total, err := svc.ListUsers(context.Background(), repo.UserFilter{Search: "jan", Page: 2, Size: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, got, 1)
	assert.Equal(t, "u2", got[0].ID)

	// the window travels to the index instead of being applied after
	require.Len(t, stub.requests, 1)
	var sent struct {
		From int `json:"from"`
		Size int `json:"size"`
	}
	require.NoError(t, json.Unmarshal(stub.requests[0], &sent))
	assert.Equal(t, 1, sent.From)
	assert.Equal(t, 1, sent.Size)
}
