package tenancy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	"github.com/portfoliopro/portfoliopro/internal/domain/repository"
)

// fakeLookup serves a fixed set of servable tenants keyed by subdomain,
// mimicking the repository's active/non-banned filter.
type fakeLookup struct {
	users map[string]*entity.User
	err   error
	calls int
}

func (f *fakeLookup) FindTenant(_ context.Context, subdomain string) (*entity.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[strings.ToLower(subdomain)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func newTestResolver(t *testing.T, lookup *fakeLookup, override bool) *Resolver {
	t.Helper()
	cfg := Config{
		BaseDomain:         "portfoliopro.site",
		ReservedLabels:     []string{"www", "api", "admin"},
		AllowQueryOverride: override,
	}
	return NewResolver(cfg, lookup, nil, nil)
}

func janeLookup() *fakeLookup {
	return &fakeLookup{users: map[string]*entity.User{
		"jane": {
			ID:        "u-1",
			Username:  "jane",
			Subdomain: "jane",
			Role:      entity.RoleUser,
			IsActive:  true,
		},
	}}
}

func TestResolveBareBaseDomain(t *testing.T) {
	lookup := janeLookup()
	r := newTestResolver(t, lookup, false)

	res, err := r.Resolve(context.Background(), "portfoliopro.site", "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, res.Outcome)
	assert.False(t, res.TenantPresent())
	assert.Zero(t, lookup.calls, "bare base domain must not hit the lookup")
}

func TestResolveKnownTenant(t *testing.T) {
	r := newTestResolver(t, janeLookup(), false)

	for _, host := range []string{
		"jane.portfoliopro.site",
		"JANE.portfoliopro.site",       // case-insensitive
		"jane.portfoliopro.site:8000",  // port stripped
		"Jane.PortfolioPro.Site:443",   // both at once
	} {
		res, err := r.Resolve(context.Background(), host, "")
		require.NoError(t, err, host)
		require.Equal(t, OutcomeTenant, res.Outcome, host)
		require.NotNil(t, res.Tenant, host)
		assert.Equal(t, "u-1", res.Tenant.UserID, host)
		assert.Equal(t, "jane", res.Subdomain, host)
	}
}

func TestResolveUnknownSubdomain(t *testing.T) {
	r := newTestResolver(t, janeLookup(), false)

	res, err := r.Resolve(context.Background(), "nouser.portfoliopro.site", "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, res.Outcome)
	assert.Equal(t, "nouser", res.Subdomain)
	assert.Nil(t, res.Tenant)
}

func TestResolveBannedOrInactiveYieldsNotFound(t *testing.T) {
	// The lookup filters banned/inactive users out, so from the resolver's
	// perspective they are indistinguishable from unknown labels and ban
	// status never leaks to the requester.
	r := newTestResolver(t, janeLookup(), false)

	res, err := r.Resolve(context.Background(), "banneduser.portfoliopro.site", "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, res.Outcome)
}

func TestResolveReservedLabels(t *testing.T) {
	lookup := janeLookup()
	r := newTestResolver(t, lookup, false)

	for _, host := range []string{"www.portfoliopro.site", "api.portfoliopro.site", "admin.portfoliopro.site"} {
		res, err := r.Resolve(context.Background(), host, "")
		require.NoError(t, err, host)
		assert.Equal(t, OutcomeNone, res.Outcome, host)
	}
	assert.Zero(t, lookup.calls, "reserved labels must never reach the lookup")
}

func TestResolveMalformedHosts(t *testing.T) {
	r := newTestResolver(t, janeLookup(), false)

	for _, host := range []string{
		"",
		"   ",
		"some-other-domain.com",
		"deep.jane.portfoliopro.site", // nested labels never resolve
		"-bad-.portfoliopro.site",     // invalid label charset
		"[::1]:8080",
	} {
		res, err := r.Resolve(context.Background(), host, "")
		require.NoError(t, err, "malformed host must not raise: %q", host)
		assert.Equal(t, OutcomeNone, res.Outcome, host)
	}
}

func TestResolveBackendFailurePropagates(t *testing.T) {
	boom := errors.New("connection refused")
	r := newTestResolver(t, &fakeLookup{err: boom}, false)

	_, err := r.Resolve(context.Background(), "jane.portfoliopro.site", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestResolveIdempotent(t *testing.T) {
	r := newTestResolver(t, janeLookup(), false)

	first, err := r.Resolve(context.Background(), "jane.portfoliopro.site", "")
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), "jane.portfoliopro.site", "")
	require.NoError(t, err)
	assert.Equal(t, first.Outcome, second.Outcome)
	assert.Equal(t, first.Subdomain, second.Subdomain)
	assert.Equal(t, first.Tenant, second.Tenant)
}

func TestDevOverride(t *testing.T) {
	t.Run("honored on local hosts when enabled", func(t *testing.T) {
		r := newTestResolver(t, janeLookup(), true)
		res, err := r.Resolve(context.Background(), "localhost:8000", "jane")
		require.NoError(t, err)
		require.Equal(t, OutcomeTenant, res.Outcome)
		assert.Equal(t, "u-1", res.Tenant.UserID)
	})

	t.Run("ignored on production hosts", func(t *testing.T) {
		lookup := janeLookup()
		r := newTestResolver(t, lookup, true)
		res, err := r.Resolve(context.Background(), "portfoliopro.site", "jane")
		require.NoError(t, err)
		assert.Equal(t, OutcomeNone, res.Outcome, "override must not spoof a tenant on the base domain")
	})

	t.Run("disabled by config", func(t *testing.T) {
		r := newTestResolver(t, janeLookup(), false)
		res, err := r.Resolve(context.Background(), "localhost:8000", "jane")
		require.NoError(t, err)
		assert.Equal(t, OutcomeNone, res.Outcome)
	})

	t.Run("reserved label via override stays platform context", func(t *testing.T) {
		lookup := janeLookup()
		r := newTestResolver(t, lookup, true)
		res, err := r.Resolve(context.Background(), "localhost", "www")
		require.NoError(t, err)
		assert.Equal(t, OutcomeNone, res.Outcome)
		assert.Zero(t, lookup.calls)
	})
}

func TestValidLabel(t *testing.T) {
	valid := []string{"a", "jane", "jane-doe", "j4ne", "0x0"}
	invalid := []string{"", "-jane", "jane-", "Jane", "ja.ne", "ja_ne", strings.Repeat("a", 51)}

	for _, s := range valid {
		assert.True(t, ValidLabel(s), s)
	}
	for _, s := range invalid {
		assert.False(t, ValidLabel(s), s)
	}
}

func TestContextRoundTrip(t *testing.T) {
	res := Resolution{Outcome: OutcomeTenant, Subdomain: "jane", Tenant: &Tenant{UserID: "u-1"}}
	ctx := NewContext(context.Background(), res)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, res, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
