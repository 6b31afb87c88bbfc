package ports

import (
	"context"

	"github.com/crmdesk/crm-system/internal/core/domain"
)

// Profile is an account summary for the authenticated user.
type Profile struct {
	User        *domain.User `json:"user"`
	ClientCount int64        `json:"client_count"`
}

// UserService defines account-level use cases for the authenticated user.
type UserService interface {
	Profile(ctx context.Context, userID string) (*Profile, error)
	// DeleteAccount removes the user and cascades: the user's clients are
	// deleted and their invoices detached.
	DeleteAccount(ctx context.Context, userID string) error
}
