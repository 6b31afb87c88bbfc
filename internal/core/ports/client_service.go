package ports

import (
	"context"

	"github.com/crmdesk/crm-system/internal/core/domain"
)

// ClientInput carries the writable client fields from the transport layer.
type ClientInput struct {
	FirstName   string
	LastName    string
	CompanyName string
	Email       string
	PhoneNumber string
	Address     string
	City        string
	Country     string
	IsActive    *bool // nil on create means "active"
}

// ClientPage is a single result window plus the pagination envelope.
type ClientPage struct {
	Items      []*domain.Client
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// MonthlyCount is one entry of a dense 12-element monthly series.
type MonthlyCount struct {
	Month string `json:"month"` // "YYYY-MM"
	Count int64  `json:"count"`
}

// ClientService defines the tenant-scoped use cases for clients. Every
// operation takes the owning user's id; records of other tenants are
// structurally out of reach.
type ClientService interface {
	Create(ctx context.Context, ownerID string, input ClientInput) (*domain.Client, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Client, error)
	Update(ctx context.Context, ownerID, id string, input ClientInput) (*domain.Client, error)
	// Delete removes the client and detaches its invoices.
	Delete(ctx context.Context, ownerID, id string) error

	// Search returns every matching client. Intended for bulk/export use.
	Search(ctx context.Context, filter ClientFilter) ([]*domain.Client, error)
	// SearchPage returns one page window and the total count.
	SearchPage(ctx context.Context, filter ClientFilter) (*ClientPage, error)

	// MonthlyStats returns a dense 12-entry series of clients created per
	// month of the given calendar year.
	MonthlyStats(ctx context.Context, ownerID string, year int) ([]MonthlyCount, error)
}
