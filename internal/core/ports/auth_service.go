package ports

import (
	"context"

	"github.com/crmdesk/crm-system/internal/core/domain"
)

// RegisterInput carries the data needed to open a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthService implements account registration and login.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login verifies credentials, stamps the last login time, and returns a
	// signed token alongside the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
