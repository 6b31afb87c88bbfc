package ports

import (
	"context"
	"time"

	"github.com/crmdesk/crm-system/internal/core/domain"
)

// UserRepository defines persistence operations for account users.
type UserRepository interface {
	// Create inserts a new user. A clash on the unique email surfaces as
	// domain.ErrUserExists.
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	// UpdateLastLogin stamps the last-authenticated time without touching the
	// rest of the record.
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	Delete(ctx context.Context, id string) error
}
