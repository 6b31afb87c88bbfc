package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/crmdesk/crm-system/internal/core/domain"
	"github.com/crmdesk/crm-system/internal/core/ports"
)

func invoiceInputFixture() ports.InvoiceInput {
	return ports.InvoiceInput{
		ClientID:      "client_1",
		InvoiceNumber: "F-2025-001",
		BillingDate:   time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		Amount:        150,
		Status:        "unpaid",
	}
}

func ownedClient() *domain.Client {
	return &domain.Client{ID: "client_1", OwnerID: "user_1"}
}

func TestInvoiceService_Create_ChecksClientOwnership(t *testing.T) {
	clients := &stubClientRepo{
		findByIDFn: func(ctx context.Context, id, ownerID string) (*domain.Client, error) {
			if id != "client_1" || ownerID != "user_1" {
				t.Fatalf("unexpected lookup scope: %s %s", id, ownerID)
			}
			return ownedClient(), nil
		},
	}
	invoices := &stubInvoiceRepo{
		createFn: func(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
			if inv.OwnerID != "user_1" || inv.ClientID != "client_1" {
				t.Fatalf("tenant denormalization missing: %+v", inv)
			}
			inv.ID = "inv_1"
			return inv, nil
		},
	}
	cache := &stubStatsCache{}
	svc := NewInvoiceService(invoices, clients, cache, zerolog.Nop())

	created, err := svc.Create(context.Background(), "user_1", invoiceInputFixture())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "inv_1" {
		t.Fatalf("unexpected invoice: %+v", created)
	}
	if len(cache.invalidated) != 1 {
		t.Fatalf("stats cache not invalidated")
	}
}

func TestInvoiceService_Create_ForeignClientReadsAsNotFound(t *testing.T) {
	clients := &stubClientRepo{
		findByIDFn: func(ctx context.Context, id, ownerID string) (*domain.Client, error) {
			return nil, domain.ErrClientNotFound
		},
	}
	invoices := &stubInvoiceRepo{
		createFn: func(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
			t.Fatalf("store should not be reached")
			return nil, nil
		},
	}
	svc := NewInvoiceService(invoices, clients, &stubStatsCache{}, zerolog.Nop())

	_, err := svc.Create(context.Background(), "user_2", invoiceInputFixture())
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestInvoiceService_Create_DuplicateNumber(t *testing.T) {
	clients := &stubClientRepo{
		findByIDFn: func(ctx context.Context, id, ownerID string) (*domain.Client, error) {
			return ownedClient(), nil
		},
	}
	invoices := &stubInvoiceRepo{
		createFn: func(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
			return nil, domain.ErrDuplicateInvoiceNumber
		},
	}
	svc := NewInvoiceService(invoices, clients, &stubStatsCache{}, zerolog.Nop())

	_, err := svc.Create(context.Background(), "user_1", invoiceInputFixture())
	if !errors.Is(err, domain.ErrDuplicateInvoiceNumber) {
		t.Fatalf("expected ErrDuplicateInvoiceNumber, got %v", err)
	}
}

func TestInvoiceService_Create_InvalidAmount(t *testing.T) {
	clients := &stubClientRepo{
		findByIDFn: func(ctx context.Context, id, ownerID string) (*domain.Client, error) {
			return ownedClient(), nil
		},
	}
	invoices := &stubInvoiceRepo{
		createFn: func(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
			t.Fatalf("store should not be reached")
			return nil, nil
		},
	}
	svc := NewInvoiceService(invoices, clients, &stubStatsCache{}, zerolog.Nop())

	input := invoiceInputFixture()
	input.Amount = 0
	_, err := svc.Create(context.Background(), "user_1", input)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "amount" {
		t.Fatalf("expected amount validation error, got %v", err)
	}
}

func TestInvoiceService_Update_ReassignmentRechecksClient(t *testing.T) {
	existing := &domain.Invoice{
		ID:            "inv_1",
		OwnerID:       "user_1",
		ClientID:      "client_1",
		InvoiceNumber: "F-2025-001",
		BillingDate:   time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		Amount:        150,
		Status:        domain.InvoiceUnpaid,
	}
	lookedUp := ""
	clients := &stubClientRepo{
		findByIDFn: func(ctx context.Context, id, ownerID string) (*domain.Client, error) {
			lookedUp = id
			return &domain.Client{ID: id, OwnerID: ownerID}, nil
		},
	}
	invoices := &stubInvoiceRepo{
		findByIDFn: func(ctx context.Context, id, ownerID string) (*domain.Invoice, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, inv *domain.Invoice) error {
			return nil
		},
	}
	svc := NewInvoiceService(invoices, clients, &stubStatsCache{}, zerolog.Nop())

	input := invoiceInputFixture()
	input.ClientID = "client_2"
	input.Status = "paid"
	updated, err := svc.Update(context.Background(), "user_1", "inv_1", input)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if lookedUp != "client_2" {
		t.Fatalf("target client not re-checked, looked up %q", lookedUp)
	}
	if updated.ClientID != "client_2" || updated.Status != domain.InvoicePaid {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}

func TestInvoiceService_ListByClient_VerifiesClient(t *testing.T) {
	clients := &stubClientRepo{
		findByIDFn: func(ctx context.Context, id, ownerID string) (*domain.Client, error) {
			return nil, domain.ErrClientNotFound
		},
	}
	invoices := &stubInvoiceRepo{
		listByClientFn: func(ctx context.Context, clientID, ownerID string) ([]*domain.Invoice, error) {
			t.Fatalf("list should not run for an unknown client")
			return nil, nil
		},
	}
	svc := NewInvoiceService(invoices, clients, &stubStatsCache{}, zerolog.Nop())

	_, err := svc.ListByClient(context.Background(), "user_1", "ghost")
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestInvoiceService_MonthlyStats_UsesInvoiceEntity(t *testing.T) {
	entity := ""
	cache := &stubStatsCache{
		setFn: func(ctx context.Context, ownerID, e string, year int, series []ports.MonthlyCount) error {
			entity = e
			return nil
		},
	}
	invoices := &stubInvoiceRepo{
		monthlyCountsFn: func(ctx context.Context, ownerID string, year int) (map[int]int64, error) {
			return map[int]int64{12: 9}, nil
		},
	}
	svc := NewInvoiceService(invoices, &stubClientRepo{}, cache, zerolog.Nop())

	series, err := svc.MonthlyStats(context.Background(), "user_1", 2025)
	if err != nil {
		t.Fatalf("monthly stats: %v", err)
	}
	if entity != "invoices" {
		t.Fatalf("cached under wrong entity: %q", entity)
	}
	if series[11].Month != "2025-12" || series[11].Count != 9 {
		t.Fatalf("unexpected December entry: %+v", series[11])
	}
}
