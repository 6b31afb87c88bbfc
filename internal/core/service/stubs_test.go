package service

import (
	"context"
	"time"

	"github.com/crmdesk/crm-system/internal/core/domain"
	"github.com/crmdesk/crm-system/internal/core/ports"
)

// Function-field stubs: tests set only the methods they expect to be hit;
// an unexpected call panics on the nil function and fails the test.

type stubClientRepo struct {
	createFn        func(ctx context.Context, c *domain.Client) (*domain.Client, error)
	findByIDFn      func(ctx context.Context, id, ownerID string) (*domain.Client, error)
	updateFn        func(ctx context.Context, c *domain.Client) error
	deleteFn        func(ctx context.Context, id, ownerID string) error
	deleteByOwnerFn func(ctx context.Context, ownerID string) ([]string, error)
	searchFn        func(ctx context.Context, filter ports.ClientFilter) ([]*domain.Client, error)
	searchPageFn    func(ctx context.Context, filter ports.ClientFilter) ([]*domain.Client, int64, error)
	countByOwnerFn  func(ctx context.Context, ownerID string) (int64, error)
	monthlyCountsFn func(ctx context.Context, ownerID string, year int) (map[int]int64, error)
}

func (s *stubClientRepo) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	return s.createFn(ctx, c)
}

func (s *stubClientRepo) FindByID(ctx context.Context, id, ownerID string) (*domain.Client, error) {
	return s.findByIDFn(ctx, id, ownerID)
}

func (s *stubClientRepo) Update(ctx context.Context, c *domain.Client) error {
	return s.updateFn(ctx, c)
}

func (s *stubClientRepo) Delete(ctx context.Context, id, ownerID string) error {
	return s.deleteFn(ctx, id, ownerID)
}

func (s *stubClientRepo) DeleteByOwner(ctx context.Context, ownerID string) ([]string, error) {
	return s.deleteByOwnerFn(ctx, ownerID)
}

func (s *stubClientRepo) Search(ctx context.Context, filter ports.ClientFilter) ([]*domain.Client, error) {
	return s.searchFn(ctx, filter)
}

func (s *stubClientRepo) SearchPage(ctx context.Context, filter ports.ClientFilter) ([]*domain.Client, int64, error) {
	return s.searchPageFn(ctx, filter)
}

func (s *stubClientRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	return s.countByOwnerFn(ctx, ownerID)
}

func (s *stubClientRepo) MonthlyCounts(ctx context.Context, ownerID string, year int) (map[int]int64, error) {
	return s.monthlyCountsFn(ctx, ownerID, year)
}

type stubInvoiceRepo struct {
	createFn          func(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	findByIDFn        func(ctx context.Context, id, ownerID string) (*domain.Invoice, error)
	findByNumberFn    func(ctx context.Context, number, ownerID string) (*domain.Invoice, error)
	listByClientFn    func(ctx context.Context, clientID, ownerID string) ([]*domain.Invoice, error)
	updateFn          func(ctx context.Context, inv *domain.Invoice) error
	deleteFn          func(ctx context.Context, id, ownerID string) error
	detachByClientsFn func(ctx context.Context, clientIDs []string) (int64, error)
	monthlyCountsFn   func(ctx context.Context, ownerID string, year int) (map[int]int64, error)
}

func (s *stubInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	return s.createFn(ctx, inv)
}

func (s *stubInvoiceRepo) FindByID(ctx context.Context, id, ownerID string) (*domain.Invoice, error) {
	return s.findByIDFn(ctx, id, ownerID)
}

func (s *stubInvoiceRepo) FindByNumber(ctx context.Context, number, ownerID string) (*domain.Invoice, error) {
	return s.findByNumberFn(ctx, number, ownerID)
}

func (s *stubInvoiceRepo) ListByClient(ctx context.Context, clientID, ownerID string) ([]*domain.Invoice, error) {
	return s.listByClientFn(ctx, clientID, ownerID)
}

func (s *stubInvoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	return s.updateFn(ctx, inv)
}

func (s *stubInvoiceRepo) Delete(ctx context.Context, id, ownerID string) error {
	return s.deleteFn(ctx, id, ownerID)
}

func (s *stubInvoiceRepo) DetachByClients(ctx context.Context, clientIDs []string) (int64, error) {
	return s.detachByClientsFn(ctx, clientIDs)
}

func (s *stubInvoiceRepo) MonthlyCounts(ctx context.Context, ownerID string, year int) (map[int]int64, error) {
	return s.monthlyCountsFn(ctx, ownerID, year)
}

type stubUserRepo struct {
	createFn          func(ctx context.Context, u *domain.User) (*domain.User, error)
	findByEmailFn     func(ctx context.Context, email string) (*domain.User, error)
	findByIDFn        func(ctx context.Context, id string) (*domain.User, error)
	updateFn          func(ctx context.Context, u *domain.User) error
	updateLastLoginFn func(ctx context.Context, id string, ts time.Time) error
	deleteFn          func(ctx context.Context, id string) error
}

func (s *stubUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return s.createFn(ctx, u)
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findByEmailFn(ctx, email)
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubUserRepo) Update(ctx context.Context, u *domain.User) error {
	return s.updateFn(ctx, u)
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return s.updateLastLoginFn(ctx, id, ts)
}

func (s *stubUserRepo) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

// stubStatsCache records calls; by default every read is a miss.
type stubStatsCache struct {
	getFn        func(ctx context.Context, ownerID, entity string, year int) ([]ports.MonthlyCount, bool, error)
	setFn        func(ctx context.Context, ownerID, entity string, year int, series []ports.MonthlyCount) error
	invalidated  []string
	invalidateFn func(ctx context.Context, ownerID string) error
}

func (s *stubStatsCache) Get(ctx context.Context, ownerID, entity string, year int) ([]ports.MonthlyCount, bool, error) {
	if s.getFn == nil {
		return nil, false, nil
	}
	return s.getFn(ctx, ownerID, entity, year)
}

func (s *stubStatsCache) Set(ctx context.Context, ownerID, entity string, year int, series []ports.MonthlyCount) error {
	if s.setFn == nil {
		return nil
	}
	return s.setFn(ctx, ownerID, entity, year, series)
}

func (s *stubStatsCache) Invalidate(ctx context.Context, ownerID string) error {
	s.invalidated = append(s.invalidated, ownerID)
	if s.invalidateFn == nil {
		return nil
	}
	return s.invalidateFn(ctx, ownerID)
}
