package repository

import (
	"context"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
)

// UserFilter narrows List queries in the superadmin user list.
type UserFilter struct {
	Role   entity.Role // empty = all
	Status string      // "", "active", "banned", "inactive"
	Search string      // matches username/email/subdomain (fallback when ES is down)
	Page   int
	Size   int
}

// UserStats is the aggregate block on the superadmin dashboard.
type UserStats struct {
	TotalUsers  int64
	ActiveUsers int64
	BannedUsers int64
	Superadmins int64
}

// UserRepository defines user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// FindTenant resolves a subdomain label to its owning user, filtered to
	// active, non-banned accounts. The match is case-insensitive exact.
	FindTenant(ctx context.Context, subdomain string) (*entity.User, error)
	// SubdomainTaken checks the label against all users regardless of status,
	// so deactivated accounts keep their claim.
	SubdomainTaken(ctx context.Context, subdomain string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *entity.User) error
	List(ctx context.Context, f UserFilter) ([]*entity.User, int64, error)
	Recent(ctx context.Context, limit int) ([]*entity.User, error)
	Stats(ctx context.Context) (UserStats, error)
}
