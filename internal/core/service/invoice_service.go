package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/crmdesk/crm-system/internal/api/metrics"
	"github.com/crmdesk/crm-system/internal/core/domain"
	"github.com/crmdesk/crm-system/internal/core/ports"
)

// InvoiceService implements the tenant-scoped invoice use cases.
type InvoiceService struct {
	invoices ports.InvoiceRepository
	clients  ports.ClientRepository
	cache    StatsCache
	logger   zerolog.Logger
}

func NewInvoiceService(invoices ports.InvoiceRepository, clients ports.ClientRepository, cache StatsCache, logger zerolog.Logger) *InvoiceService {
	return &InvoiceService{invoices: invoices, clients: clients, cache: cache, logger: logger}
}

// Create issues an invoice for one of the tenant's clients. The client
// lookup doubles as the authorization check: a client id belonging to
// another tenant reads as not found.
func (s *InvoiceService) Create(ctx context.Context, ownerID string, input ports.InvoiceInput) (*domain.Invoice, error) {
	client, err := s.clients.FindByID(ctx, input.ClientID, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv := &domain.Invoice{
		OwnerID:       ownerID,
		ClientID:      client.ID,
		InvoiceNumber: input.InvoiceNumber,
		BillingDate:   input.BillingDate,
		Amount:        input.Amount,
		Status:        domain.InvoiceStatus(input.Status),
		Note:          input.Note,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	created, err := s.invoices.Create(ctx, inv)
	if err != nil {
		return nil, err
	}

	metrics.InvoicesCreatedTotal.WithLabelValues(input.Status).Inc()
	s.invalidateStats(ctx, ownerID)
	s.logger.Info().
		Str("invoice_id", created.ID).
		Str("client_id", client.ID).
		Str("number", created.InvoiceNumber).
		Msg("invoice created")
	return created, nil
}

func (s *InvoiceService) Get(ctx context.Context, ownerID, id string) (*domain.Invoice, error) {
	return s.invoices.FindByID(ctx, id, ownerID)
}

// GetByNumber resolves an invoice by its business number within the tenant.
func (s *InvoiceService) GetByNumber(ctx context.Context, ownerID, number string) (*domain.Invoice, error) {
	return s.invoices.FindByNumber(ctx, number, ownerID)
}

// Update applies the input to an existing invoice. Reassigning the invoice
// to a different client re-checks that the target client belongs to the
// tenant.
func (s *InvoiceService) Update(ctx context.Context, ownerID, id string, input ports.InvoiceInput) (*domain.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if input.ClientID != "" && input.ClientID != inv.ClientID {
		client, err := s.clients.FindByID(ctx, input.ClientID, ownerID)
		if err != nil {
			return nil, err
		}
		inv.ClientID = client.ID
	}

	inv.InvoiceNumber = input.InvoiceNumber
	inv.BillingDate = input.BillingDate
	inv.Amount = input.Amount
	inv.Status = domain.InvoiceStatus(input.Status)
	inv.Note = input.Note
	inv.UpdatedAt = time.Now().UTC()

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	return inv, nil
}

func (s *InvoiceService) Delete(ctx context.Context, ownerID, id string) error {
	inv, err := s.invoices.FindByID(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := s.invoices.Delete(ctx, inv.ID, ownerID); err != nil {
		return err
	}

	s.invalidateStats(ctx, ownerID)
	s.logger.Info().Str("invoice_id", inv.ID).Str("owner_id", ownerID).Msg("invoice deleted")
	return nil
}

// ListByClient returns every invoice of one of the tenant's clients.
func (s *InvoiceService) ListByClient(ctx context.Context, ownerID, clientID string) ([]*domain.Invoice, error) {
	client, err := s.clients.FindByID(ctx, clientID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.invoices.ListByClient(ctx, client.ID, ownerID)
}

// MonthlyStats returns a dense 12-entry series of invoices billed per month
// of the given year, served from cache when possible.
func (s *InvoiceService) MonthlyStats(ctx context.Context, ownerID string, year int) ([]ports.MonthlyCount, error) {
	series, ok, err := s.cache.Get(ctx, ownerID, "invoices", year)
	if err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("stats cache read failed")
		metrics.StatsCacheTotal.WithLabelValues("error").Inc()
	} else if ok {
		metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
		return series, nil
	} else {
		metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
	}

	raw, err := s.invoices.MonthlyCounts(ctx, ownerID, year)
	if err != nil {
		return nil, err
	}

	series = denseMonthlySeries(year, raw)
	if err := s.cache.Set(ctx, ownerID, "invoices", year, series); err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("stats cache write failed")
	}
	return series, nil
}

func (s *InvoiceService) invalidateStats(ctx context.Context, ownerID string) {
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("stats cache invalidation failed")
	}
}
