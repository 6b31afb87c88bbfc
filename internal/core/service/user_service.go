package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/crmdesk/crm-system/internal/core/ports"
)

// UserService implements account-level use cases.
type UserService struct {
	users    ports.UserRepository
	clients  ports.ClientRepository
	invoices ports.InvoiceRepository
	cache    StatsCache
	logger   zerolog.Logger
}

func NewUserService(users ports.UserRepository, clients ports.ClientRepository, invoices ports.InvoiceRepository, cache StatsCache, logger zerolog.Logger) *UserService {
	return &UserService{users: users, clients: clients, invoices: invoices, cache: cache, logger: logger}
}

// Profile returns the account record plus how many clients it owns.
func (s *UserService) Profile(ctx context.Context, userID string) (*ports.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.clients.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ports.Profile{User: user, ClientCount: count}, nil
}

// DeleteAccount removes the user with its cascade: owned clients are deleted
// and their invoices detached, keeping billing records in place.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	clientIDs, err := s.clients.DeleteByOwner(ctx, user.ID)
	if err != nil {
		return err
	}
	detached, err := s.invoices.DetachByClients(ctx, clientIDs)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}

	if err := s.cache.Invalidate(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("stats cache invalidation failed")
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Int("clients_removed", len(clientIDs)).
		Int64("invoices_detached", detached).
		Msg("account deleted")
	return nil
}
