package tenancy

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
	"github.com/portfoliopro/portfoliopro/internal/domain/repository"
)

// UserLookup is the single read query the resolver issues: subdomain label
// to active, non-banned user. Satisfied by repository.UserRepository.
type UserLookup interface {
	FindTenant(ctx context.Context, subdomain string) (*entity.User, error)
}

// Resolver maps request hostnames to tenants. Safe for concurrent use; it
// performs read-only lookups and never mutates user state.
type Resolver struct {
	cfg      Config
	users    UserLookup
	cache    *redis.Client // optional; nil disables the read-through cache
	logger   *logrus.Logger
	reserved map[string]struct{}
}

func NewResolver(cfg Config, users UserLookup, cache *redis.Client, logger *logrus.Logger) *Resolver {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	reserved := make(map[string]struct{}, len(cfg.ReservedLabels))
	for _, l := range cfg.ReservedLabels {
		reserved[strings.ToLower(strings.TrimSpace(l))] = struct{}{}
	}
	return &Resolver{cfg: cfg, users: users, cache: cache, logger: logger, reserved: reserved}
}

// IsReserved reports whether the label is withheld from tenant resolution.
func (r *Resolver) IsReserved(label string) bool {
	_, ok := r.reserved[strings.ToLower(label)]
	return ok
}

// Resolve determines the tenant scope for one request.
//
// host is the raw Host header (may carry a port). override is the optional
// dev-mode ?subdomain= query value; it is honored only for local hosts and
// only when the config allows it. Resolution errors are infrastructure
// failures (lookup backend down); everything expected is an Outcome.
func (r *Resolver) Resolve(ctx context.Context, host, override string) (Resolution, error) {
	h := normalizeHost(host)
	if h == "" {
		return Resolution{Outcome: OutcomeNone}, nil
	}

	// Dev override path, gated to local hosts so it can never spoof a
	// tenant in production.
	if r.cfg.AllowQueryOverride && isLocalHost(h) {
		label := strings.ToLower(strings.TrimSpace(override))
		if label == "" {
			return Resolution{Outcome: OutcomeNone}, nil
		}
		return r.resolveLabel(ctx, label)
	}

	base := strings.ToLower(r.cfg.BaseDomain)
	if h == base {
		return Resolution{Outcome: OutcomeNone}, nil
	}
	if !strings.HasSuffix(h, "."+base) {
		// Unrelated or malformed host: platform context, never an error.
		return Resolution{Outcome: OutcomeNone}, nil
	}

	label := strings.TrimSuffix(h, "."+base)
	if strings.Contains(label, ".") || !ValidLabel(label) {
		// Nested or malformed labels never resolve.
		return Resolution{Outcome: OutcomeNone}, nil
	}
	return r.resolveLabel(ctx, label)
}

func (r *Resolver) resolveLabel(ctx context.Context, label string) (Resolution, error) {
	if r.IsReserved(label) {
		// Reserved labels short-circuit before any user lookup.
		return Resolution{Outcome: OutcomeNone, Subdomain: label}, nil
	}
	if !ValidLabel(label) {
		return Resolution{Outcome: OutcomeNone}, nil
	}

	if t, miss, ok := r.cacheGet(ctx, label); ok {
		if miss {
			return Resolution{Outcome: OutcomeNotFound, Subdomain: label}, nil
		}
		return Resolution{Outcome: OutcomeTenant, Subdomain: label, Tenant: t}, nil
	}

	u, err := r.users.FindTenant(ctx, label)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			r.cacheSet(ctx, label, nil)
			return Resolution{Outcome: OutcomeNotFound, Subdomain: label}, nil
		}
		// Lookup backend unavailable: fatal for this request, not retried.
		return Resolution{}, err
	}

	t := &Tenant{
		UserID:    u.ID,
		Username:  u.Username,
		Subdomain: u.Subdomain,
		Role:      u.Role,
		IsActive:  u.IsActive,
		IsBanned:  u.IsBanned,
	}
	r.cacheSet(ctx, label, t)
	return Resolution{Outcome: OutcomeTenant, Subdomain: label, Tenant: t}, nil
}

// Invalidate drops the cached entry for a label. Must be called
// synchronously whenever a user's subdomain, active flag, or ban status
// changes.
func (r *Resolver) Invalidate(ctx context.Context, subdomain string) {
	if r.cache == nil {
		return
	}
	label := strings.ToLower(strings.TrimSpace(subdomain))
	if label == "" {
		return
	}
	if err := r.cache.Del(ctx, cacheKey(label)).Err(); err != nil && r.logger != nil {
		r.logger.WithError(err).WithField("subdomain", label).Warn("tenant cache invalidation failed")
	}
}

// cachedTenant is the wire form of a cache entry. NotFound entries are
// cached too, so repeated probes of unknown labels skip the database.
type cachedTenant struct {
	NotFound bool    `json:"not_found,omitempty"`
	Tenant   *Tenant `json:"tenant,omitempty"`
}

func cacheKey(label string) string { return "tenant:sub:" + label }

func (r *Resolver) cacheGet(ctx context.Context, label string) (t *Tenant, miss bool, ok bool) {
	if r.cache == nil {
		return nil, false, false
	}
	b, err := r.cache.Get(ctx, cacheKey(label)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, false
	}
	if err != nil {
		// Cache trouble degrades to a direct lookup.
		if r.logger != nil {
			r.logger.WithError(err).WithField("subdomain", label).Warn("tenant cache read failed")
		}
		return nil, false, false
	}
	var c cachedTenant
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, false, false
	}
	if c.NotFound {
		return nil, true, true
	}
	if c.Tenant == nil {
		return nil, false, false
	}
	return c.Tenant, false, true
}

func (r *Resolver) cacheSet(ctx context.Context, label string, t *Tenant) {
	if r.cache == nil {
		return
	}
	c := cachedTenant{NotFound: t == nil, Tenant: t}
	b, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(label), b, r.cfg.CacheTTL).Err(); err != nil && r.logger != nil {
		r.logger.WithError(err).WithField("subdomain", label).Warn("tenant cache write failed")
	}
}

// normalizeHost lowercases the host and strips any port suffix and
// trailing dot. Returns "" for garbage it cannot make sense of.
func normalizeHost(host string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return ""
	}
	// Bracketed IPv6 hosts are never tenant hosts.
	if strings.HasPrefix(h, "[") {
		if i := strings.Index(h, "]"); i >= 0 {
			return h[1:i]
		}
		return ""
	}
	if i := strings.LastIndex(h, ":"); i >= 0 {
		h = h[:i]
	}
	return strings.TrimSuffix(h, ".")
}

// isLocalHost mirrors the development hosts the dev override is allowed on.
func isLocalHost(h string) bool {
	switch h {
	case "localhost", "127.0.0.1", "0.0.0.0", "testserver":
		return true
	}
	return strings.HasPrefix(h, "192.168.") || strings.HasPrefix(h, "10.")
}
