package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/crmdesk/crm-system/internal/core/domain"
	"github.com/crmdesk/crm-system/internal/core/ports"
)

func clientInputFixture() ports.ClientInput {
	return ports.ClientInput{
		FirstName:   "maria",
		LastName:    "lopez",
		CompanyName: "Acme SA",
		Email:       "maria@acme.example",
		PhoneNumber: "5512345678",
		Address:     "Main St 1",
		City:        "Mexico City",
		Country:     "MX",
	}
}

func TestClientService_Create_SetsOwnerAndInvalidatesCache(t *testing.T) {
	cache := &stubStatsCache{}
	repo := &stubClientRepo{
		createFn: func(ctx context.Context, c *domain.Client) (*domain.Client, error) {
			if c.OwnerID != "user_1" {
				t.Fatalf("owner not set: %q", c.OwnerID)
			}
			c.ID = "client_1"
			return c, nil
		},
	}
	svc := NewClientService(repo, &stubInvoiceRepo{}, cache, zerolog.Nop())

	created, err := svc.Create(context.Background(), "user_1", clientInputFixture())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.FirstName != "Maria" {
		t.Fatalf("input not normalized: %q", created.FirstName)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "user_1" {
		t.Fatalf("stats cache not invalidated: %v", cache.invalidated)
	}
}

func TestClientService_Create_ValidationStopsBeforeStore(t *testing.T) {
	repo := &stubClientRepo{
		createFn: func(ctx context.Context, c *domain.Client) (*domain.Client, error) {
			t.Fatalf("store should not be reached")
			return nil, nil
		},
	}
	svc := NewClientService(repo, &stubInvoiceRepo{}, &stubStatsCache{}, zerolog.Nop())

	input := clientInputFixture()
	input.PhoneNumber = "123"
	_, err := svc.Create(context.Background(), "user_1", input)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "phone_number" {
		t.Fatalf("expected phone_number validation error, got %v", err)
	}
}

func TestClientService_Delete_DetachesInvoicesFirst(t *testing.T) {
	var detached []string
	deleted := false
	clients := &stubClientRepo{
		findByIDFn: func(ctx context.Context, id, ownerID string) (*domain.Client, error) {
			if id != "client_1" || ownerID != "user_1" {
				t.Fatalf("unexpected scope: %s %s", id, ownerID)
			}
			return &domain.Client{ID: "client_1", OwnerID: "user_1"}, nil
		},
		deleteFn: func(ctx context.Context, id, ownerID string) error {
			if len(detached) == 0 {
				t.Fatalf("delete ran before detach")
			}
			deleted = true
			return nil
		},
	}
	invoices := &stubInvoiceRepo{
		detachByClientsFn: func(ctx context.Context, clientIDs []string) (int64, error) {
			detached = clientIDs
			return 3, nil
		},
	}
	cache := &stubStatsCache{}
	svc := NewClientService(clients, invoices, cache, zerolog.Nop())

	if err := svc.Delete(context.Background(), "user_1", "client_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatalf("client not deleted")
	}
	if len(detached) != 1 || detached[0] != "client_1" {
		t.Fatalf("invoices not detached: %v", detached)
	}
	if len(cache.invalidated) != 1 {
		t.Fatalf("stats cache not invalidated")
	}
}

func TestClientService_Delete_OtherTenantReadsAsNotFound(t *testing.T) {
	clients := &stubClientRepo{
		findByIDFn: func(ctx context.Context, id, ownerID string) (*domain.Client, error) {
			return nil, domain.ErrClientNotFound
		},
	}
	svc := NewClientService(clients, &stubInvoiceRepo{}, &stubStatsCache{}, zerolog.Nop())

	err := svc.Delete(context.Background(), "user_2", "client_1")
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientService_SearchPage_ClampsPageAndLimit(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"defaults", 0, 0, 1, 20},
		{"negative page", -5, 10, 1, 10},
		{"limit capped", 2, 500, 2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubClientRepo{
				searchPageFn: func(ctx context.Context, filter ports.ClientFilter) ([]*domain.Client, int64, error) {
					if filter.Page != tt.wantPage || filter.Limit != tt.wantLimit {
						t.Fatalf("expected page=%d limit=%d, got page=%d limit=%d",
							tt.wantPage, tt.wantLimit, filter.Page, filter.Limit)
					}
					return nil, 0, nil
				},
			}
			svc := NewClientService(repo, &stubInvoiceRepo{}, &stubStatsCache{}, zerolog.Nop())

			_, err := svc.SearchPage(context.Background(), ports.ClientFilter{
				OwnerID: "user_1",
				Page:    tt.page,
				Limit:   tt.limit,
			})
			if err != nil {
				t.Fatalf("search page: %v", err)
			}
		})
	}
}

func TestClientService_SearchPage_TotalPagesRoundsUp(t *testing.T) {
	// 45 matches at 20 per page means pages 1 and 2 are full, page 3 holds 5.
	repo := &stubClientRepo{
		searchPageFn: func(ctx context.Context, filter ports.ClientFilter) ([]*domain.Client, int64, error) {
			window := 20
			if filter.Page == 3 {
				window = 5
			}
			items := make([]*domain.Client, window)
			for i := range items {
				items[i] = &domain.Client{OwnerID: filter.OwnerID}
			}
			return items, 45, nil
		},
	}
	svc := NewClientService(repo, &stubInvoiceRepo{}, &stubStatsCache{}, zerolog.Nop())

	page, err := svc.SearchPage(context.Background(), ports.ClientFilter{OwnerID: "user_1", Page: 3})
	if err != nil {
		t.Fatalf("search page: %v", err)
	}
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", page.TotalPages)
	}
	if page.Total != 45 || page.Page != 3 || page.Limit != 20 {
		t.Fatalf("unexpected page meta: %+v", page)
	}
	if len(page.Items) != 5 {
		t.Fatalf("expected 5 items on the last page, got %d", len(page.Items))
	}
}

func TestClientService_SearchPage_PastEndIsEmptyNotError(t *testing.T) {
	repo := &stubClientRepo{
		searchPageFn: func(ctx context.Context, filter ports.ClientFilter) ([]*domain.Client, int64, error) {
			return nil, 45, nil
		},
	}
	svc := NewClientService(repo, &stubInvoiceRepo{}, &stubStatsCache{}, zerolog.Nop())

	page, err := svc.SearchPage(context.Background(), ports.ClientFilter{OwnerID: "user_1", Page: 99})
	if err != nil {
		t.Fatalf("search page: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("expected empty window, got %d items", len(page.Items))
	}
	if page.Page != 99 {
		t.Fatalf("requested page must be echoed back, got %d", page.Page)
	}
}

func TestClientService_MonthlyStats_MissComputesAndStores(t *testing.T) {
	var storedSeries []ports.MonthlyCount
	cache := &stubStatsCache{
		setFn: func(ctx context.Context, ownerID, entity string, year int, series []ports.MonthlyCount) error {
			if entity != "clients" || year != 2025 {
				t.Fatalf("unexpected cache key parts: %s %d", entity, year)
			}
			storedSeries = series
			return nil
		},
	}
	repo := &stubClientRepo{
		monthlyCountsFn: func(ctx context.Context, ownerID string, year int) (map[int]int64, error) {
			return map[int]int64{3: 2}, nil
		},
	}
	svc := NewClientService(repo, &stubInvoiceRepo{}, cache, zerolog.Nop())

	series, err := svc.MonthlyStats(context.Background(), "user_1", 2025)
	if err != nil {
		t.Fatalf("monthly stats: %v", err)
	}
	if len(series) != 12 {
		t.Fatalf("expected dense series, got %d entries", len(series))
	}
	if series[2].Month != "2025-03" || series[2].Count != 2 {
		t.Fatalf("unexpected March entry: %+v", series[2])
	}
	if len(storedSeries) != 12 {
		t.Fatalf("computed series not cached")
	}
}

func TestClientService_MonthlyStats_HitSkipsRepository(t *testing.T) {
	cached := denseMonthlySeries(2025, map[int]int64{1: 4})
	cache := &stubStatsCache{
		getFn: func(ctx context.Context, ownerID, entity string, year int) ([]ports.MonthlyCount, bool, error) {
			return cached, true, nil
		},
	}
	repo := &stubClientRepo{
		monthlyCountsFn: func(ctx context.Context, ownerID string, year int) (map[int]int64, error) {
			t.Fatalf("repository should not be reached on cache hit")
			return nil, nil
		},
	}
	svc := NewClientService(repo, &stubInvoiceRepo{}, cache, zerolog.Nop())

	series, err := svc.MonthlyStats(context.Background(), "user_1", 2025)
	if err != nil {
		t.Fatalf("monthly stats: %v", err)
	}
	if series[0].Count != 4 {
		t.Fatalf("cached series not returned: %+v", series[0])
	}
}

func TestClientService_MonthlyStats_CacheErrorFallsThrough(t *testing.T) {
	cache := &stubStatsCache{
		getFn: func(ctx context.Context, ownerID, entity string, year int) ([]ports.MonthlyCount, bool, error) {
			return nil, false, errors.New("redis down")
		},
		setFn: func(ctx context.Context, ownerID, entity string, year int, series []ports.MonthlyCount) error {
			return errors.New("redis down")
		},
	}
	repo := &stubClientRepo{
		monthlyCountsFn: func(ctx context.Context, ownerID string, year int) (map[int]int64, error) {
			return map[int]int64{7: 1}, nil
		},
	}
	svc := NewClientService(repo, &stubInvoiceRepo{}, cache, zerolog.Nop())

	series, err := svc.MonthlyStats(context.Background(), "user_1", 2025)
	if err != nil {
		t.Fatalf("cache failure must not be fatal: %v", err)
	}
	if series[6].Count != 1 {
		t.Fatalf("store result not returned: %+v", series[6])
	}
}
