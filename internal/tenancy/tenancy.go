// Package tenancy resolves inbound hostnames to the tenant (user) whose
// portfolio the request is scoped to. It is the only authoritative place for
// the domain-to-user mapping; downstream handlers trust the resolution
// attached to the request context and never re-derive tenancy.
package tenancy

import (
	"context"
	"regexp"
	"time"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
)

// Config is injected at resolver construction so tests can supply distinct
// base domains and reserved sets without process-wide state.
type Config struct {
	// BaseDomain is the platform root under which tenant subdomains are
	// issued, e.g. "portfoliopro.site".
	BaseDomain string
	// ReservedLabels never resolve to a tenant (www, api, admin, ...).
	ReservedLabels []string
	// AllowQueryOverride honors an explicit ?subdomain= override on local
	// hosts. Must stay disabled outside development to prevent spoofing.
	AllowQueryOverride bool
	// CacheTTL bounds staleness of the read-through subdomain cache.
	CacheTTL time.Duration
}

// Outcome classifies a resolution. Unknown subdomains are an expected,
// modeled outcome, not an error.
type Outcome int

const (
	// OutcomeNone means the request is not tenant-scoped: the bare base
	// domain, a reserved label, or an unrelated/malformed host.
	OutcomeNone Outcome = iota
	// OutcomeTenant means an active, non-banned user owns the subdomain.
	OutcomeTenant
	// OutcomeNotFound means a subdomain was requested but no servable
	// tenant owns it. Unknown, banned and deactivated are indistinguishable
	// to the caller so ban status is never leaked.
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTenant:
		return "tenant"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "none"
	}
}

// Tenant is the read-only snapshot handed to the rest of the request.
type Tenant struct {
	UserID    string      `json:"user_id"`
	Username  string      `json:"username"`
	Subdomain string      `json:"subdomain"`
	Role      entity.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	IsBanned  bool        `json:"is_banned"`
}

// Resolution is the result of resolving one request's host.
type Resolution struct {
	Outcome   Outcome
	Subdomain string  // candidate label, empty for OutcomeNone without one
	Tenant    *Tenant // non-nil only for OutcomeTenant
}

// TenantPresent reports whether the request is scoped to a resolved tenant.
func (r Resolution) TenantPresent() bool { return r.Outcome == OutcomeTenant && r.Tenant != nil }

// labelRe matches a DNS-safe subdomain label: lowercase alphanumeric with
// interior hyphens only.
var labelRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// ValidLabel reports whether s is a well-formed subdomain label.
func ValidLabel(s string) bool {
	return s != "" && len(s) <= 50 && labelRe.MatchString(s)
}

type ctxKey struct{}

// NewContext returns a context carrying the resolution.
func NewContext(ctx context.Context, res Resolution) context.Context {
	return context.WithValue(ctx, ctxKey{}, res)
}

// FromContext extracts the resolution attached by the tenant middleware.
func FromContext(ctx context.Context) (Resolution, bool) {
	res, ok := ctx.Value(ctxKey{}).(Resolution)
	return res, ok
}
