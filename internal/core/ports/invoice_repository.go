package ports

import (
	"context"

	"github.com/crmdesk/crm-system/internal/core/domain"
)

// InvoiceRepository defines persistence operations for invoices.
type InvoiceRepository interface {
	// Create inserts a new invoice. A clash on the globally unique invoice
	// number surfaces as domain.ErrDuplicateInvoiceNumber.
	Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	// FindByID retrieves an invoice by id, scoped to the tenant when ownerID
	// is non-empty.
	FindByID(ctx context.Context, id, ownerID string) (*domain.Invoice, error)
	FindByNumber(ctx context.Context, number, ownerID string) (*domain.Invoice, error)
	ListByClient(ctx context.Context, clientID, ownerID string) ([]*domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	Delete(ctx context.Context, id, ownerID string) error

	// DetachByClients clears the client reference on every invoice linked to
	// the given clients, leaving the invoices themselves in place.
	DetachByClients(ctx context.Context, clientIDs []string) (int64, error)

	// MonthlyCounts returns raw (month index 1-12 → count) pairs for invoices
	// billed by the tenant within the calendar year.
	MonthlyCounts(ctx context.Context, ownerID string, year int) (map[int]int64, error)
}
