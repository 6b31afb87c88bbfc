package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/crmdesk/crm-system/internal/api/metrics"
	"github.com/crmdesk/crm-system/internal/core/domain"
	"github.com/crmdesk/crm-system/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// StatsCache abstracts the monthly statistics cache (Redis). A cache error
// is never fatal: callers log it and fall through to the store.
type StatsCache interface {
	Get(ctx context.Context, ownerID, entity string, year int) ([]ports.MonthlyCount, bool, error)
	Set(ctx context.Context, ownerID, entity string, year int, series []ports.MonthlyCount) error
	Invalidate(ctx context.Context, ownerID string) error
}

// ClientService implements the tenant-scoped client use cases.
type ClientService struct {
	clients  ports.ClientRepository
	invoices ports.InvoiceRepository
	cache    StatsCache
	logger   zerolog.Logger
}

func NewClientService(clients ports.ClientRepository, invoices ports.InvoiceRepository, cache StatsCache, logger zerolog.Logger) *ClientService {
	return &ClientService{clients: clients, invoices: invoices, cache: cache, logger: logger}
}

// Create validates and persists a new client for the tenant.
func (s *ClientService) Create(ctx context.Context, ownerID string, input ports.ClientInput) (*domain.Client, error) {
	client := domain.NewClient()
	applyClientInput(client, input)
	client.OwnerID = ownerID
	client.UpdatedAt = client.CreatedAt

	if err := client.Validate(); err != nil {
		return nil, err
	}

	created, err := s.clients.Create(ctx, client)
	if err != nil {
		return nil, err
	}

	metrics.ClientsCreatedTotal.Inc()
	s.invalidateStats(ctx, ownerID)
	s.logger.Info().Str("client_id", created.ID).Str("owner_id", ownerID).Msg("client created")
	return created, nil
}

// Get retrieves one of the tenant's clients. Another tenant's client is
// reported as not found, never as forbidden.
func (s *ClientService) Get(ctx context.Context, ownerID, id string) (*domain.Client, error) {
	return s.clients.FindByID(ctx, id, ownerID)
}

// Update applies the input to an existing client and persists it.
func (s *ClientService) Update(ctx context.Context, ownerID, id string, input ports.ClientInput) (*domain.Client, error) {
	client, err := s.clients.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	applyClientInput(client, input)
	client.UpdatedAt = time.Now().UTC()

	if err := client.Validate(); err != nil {
		return nil, err
	}
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	return client, nil
}

// Delete removes the client and detaches its invoices. Invoices survive
// with a cleared client reference so billing history stays auditable.
func (s *ClientService) Delete(ctx context.Context, ownerID, id string) error {
	client, err := s.clients.FindByID(ctx, id, ownerID)
	if err != nil {
		return err
	}

	detached, err := s.invoices.DetachByClients(ctx, []string{client.ID})
	if err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, client.ID, ownerID); err != nil {
		return err
	}

	s.invalidateStats(ctx, ownerID)
	s.logger.Info().
		Str("client_id", client.ID).
		Str("owner_id", ownerID).
		Int64("invoices_detached", detached).
		Msg("client deleted")
	return nil
}

// Search returns every client matching the filter, ordered. The tenant
// scope on the filter is preserved as-is; handlers set it from the
// authenticated user before calling.
func (s *ClientService) Search(ctx context.Context, filter ports.ClientFilter) ([]*domain.Client, error) {
	start := time.Now()
	results, err := s.clients.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	metrics.ClientSearchesTotal.WithLabelValues("full").Inc()
	metrics.SearchDuration.WithLabelValues("client").Observe(time.Since(start).Seconds())
	return results, nil
}

// SearchPage returns one page window plus the total count. Page numbers
// below 1 clamp to 1; the limit defaults to 20 and caps at 100. A page past
// the end yields an empty window, not an error.
func (s *ClientService) SearchPage(ctx context.Context, filter ports.ClientFilter) (*ports.ClientPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	start := time.Now()
	items, total, err := s.clients.SearchPage(ctx, filter)
	if err != nil {
		return nil, err
	}

	metrics.ClientSearchesTotal.WithLabelValues("paged").Inc()
	metrics.SearchDuration.WithLabelValues("client").Observe(time.Since(start).Seconds())

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}

	return &ports.ClientPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// MonthlyStats returns a dense 12-entry series of clients created per month
// of the given year, served from cache when possible.
func (s *ClientService) MonthlyStats(ctx context.Context, ownerID string, year int) ([]ports.MonthlyCount, error) {
	if series, ok := s.cachedStats(ctx, ownerID, "clients", year); ok {
		return series, nil
	}

	raw, err := s.clients.MonthlyCounts(ctx, ownerID, year)
	if err != nil {
		return nil, err
	}

	series := denseMonthlySeries(year, raw)
	s.storeStats(ctx, ownerID, "clients", year, series)
	return series, nil
}

func (s *ClientService) cachedStats(ctx context.Context, ownerID, entity string, year int) ([]ports.MonthlyCount, bool) {
	series, ok, err := s.cache.Get(ctx, ownerID, entity, year)
	if err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("stats cache read failed")
		metrics.StatsCacheTotal.WithLabelValues("error").Inc()
		return nil, false
	}
	if ok {
		metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
		return series, true
	}
	metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
	return nil, false
}

func (s *ClientService) storeStats(ctx context.Context, ownerID, entity string, year int, series []ports.MonthlyCount) {
	if err := s.cache.Set(ctx, ownerID, entity, year, series); err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("stats cache write failed")
	}
}

func (s *ClientService) invalidateStats(ctx context.Context, ownerID string) {
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("stats cache invalidation failed")
	}
}

// applyClientInput copies the writable fields onto the entity through the
// normalizing setters.
func applyClientInput(client *domain.Client, input ports.ClientInput) {
	client.SetFirstName(input.FirstName)
	client.SetLastName(input.LastName)
	client.CompanyName = input.CompanyName
	client.SetEmail(input.Email)
	client.PhoneNumber = input.PhoneNumber
	client.Address = input.Address
	client.City = input.City
	client.Country = input.Country
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}
}
