package ports

import (
	"context"
	"time"

	"github.com/crmdesk/crm-system/internal/core/domain"
)

// ClientFilter is the loosely-typed filter bag for client searches.
// Absent (zero-value) fields impose no constraint. OwnerID is the tenant
// scope: when set it is applied unconditionally, before and independently of
// every caller-supplied filter, and cannot be overridden by filter contents.
type ClientFilter struct {
	OwnerID string

	// Name matches case-insensitively against the first name, the last name,
	// or the joined "first last" string.
	Name string

	Email         string     // substring, case-insensitive
	City          string     // substring, case-insensitive
	IsActive      *bool      // nil = no constraint
	CreatedAfter  time.Time  // inclusive lower bound on created_at
	CreatedBefore time.Time  // inclusive upper bound on created_at

	// SortField is validated against a whitelist (firstName, lastName, email,
	// createdAt, city). Unrecognized values silently fall back to the default
	// last-name/first-name ordering; they never fail the query.
	SortField string
	SortDir   string // "asc" (default) or "desc"

	Page  int // 1-based; values below 1 are clamped to 1
	Limit int // page size; defaults and caps applied by the service
}

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	// FindByID retrieves a client by id. When ownerID is non-empty the lookup
	// is additionally scoped to that tenant; another tenant's client is
	// indistinguishable from an absent one.
	FindByID(ctx context.Context, id, ownerID string) (*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id, ownerID string) error
	// DeleteByOwner removes every client of a tenant and returns the ids of
	// the removed records so the caller can detach their invoices.
	DeleteByOwner(ctx context.Context, ownerID string) ([]string, error)

	// Search returns every matching client, ordered per the filter.
	Search(ctx context.Context, filter ClientFilter) ([]*domain.Client, error)
	// SearchPage returns one page window plus the total matching count
	// independent of the window.
	SearchPage(ctx context.Context, filter ClientFilter) ([]*domain.Client, int64, error)

	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	// MonthlyCounts returns raw (month index 1-12 → count) pairs for clients
	// created by the tenant within the calendar year. Months with no records
	// are absent from the map.
	MonthlyCounts(ctx context.Context, ownerID string, year int) (map[int]int64, error)
}
