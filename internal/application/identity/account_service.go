package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/identity"
	"github.com/mead/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AccountService serves account lookups and seeds the administrator
type AccountService struct {
	accountRepo    identity.AccountRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo identity.AccountRepository, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{accountRepo: accountRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *AccountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Get returns an account by ID
func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAccountResponse(account)
	return &resp, nil
}

// EnsureAdministrator creates the administrator account, or promotes an
// existing account with the same email. The password is only set on creation.
// The boolean reports whether a new account was created.
func (s *AccountService) EnsureAdministrator(ctx context.Context, input EnsureAdministratorInput) (*identity.Account, bool, error) {
	existing, err := s.accountRepo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		if existing.Role.IsAdmin() {
			return existing, false, nil
		}
		if err := existing.ChangeRole(identity.RoleAdministrator); err != nil {
			return nil, false, err
		}
		if err := s.accountRepo.Save(ctx, existing); err != nil {
			return nil, false, err
		}
		s.logger.Info("Existing account promoted to administrator", zap.String("account_id", existing.ID.String()))
		return existing, false, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, false, err
	}

	account, err := identity.NewAccount(input.Email, input.Name, identity.RoleAdministrator)
	if err != nil {
		return nil, false, err
	}
	if err := account.SetPassword(input.Password); err != nil {
		return nil, false, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, false, err
	}

	events := account.PullDomainEvents()
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish account events", zap.Error(err))
		}
	}

	s.logger.Info("Administrator account created", zap.String("account_id", account.ID.String()))
	return account, true, nil
}
