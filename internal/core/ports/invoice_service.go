package ports

import (
	"context"
	"time"

	"github.com/crmdesk/crm-system/internal/core/domain"
)

// InvoiceInput carries the writable invoice fields from the transport layer.
type InvoiceInput struct {
	ClientID      string
	InvoiceNumber string
	BillingDate   time.Time
	Amount        float64
	Status        string
	Note          string
}

// InvoiceService defines the tenant-scoped use cases for invoices.
type InvoiceService interface {
	// Create issues an invoice for one of the tenant's clients. A client id
	// outside the tenant's scope reads as not found.
	Create(ctx context.Context, ownerID string, input InvoiceInput) (*domain.Invoice, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Invoice, error)
	// GetByNumber retrieves an invoice by its business number within the
	// tenant's scope.
	GetByNumber(ctx context.Context, ownerID, number string) (*domain.Invoice, error)
	Update(ctx context.Context, ownerID, id string, input InvoiceInput) (*domain.Invoice, error)
	Delete(ctx context.Context, ownerID, id string) error
	ListByClient(ctx context.Context, ownerID, clientID string) ([]*domain.Invoice, error)

	// MonthlyStats returns a dense 12-entry series of invoices billed per
	// month of the given calendar year.
	MonthlyStats(ctx context.Context, ownerID string, year int) ([]MonthlyCount, error)
}
