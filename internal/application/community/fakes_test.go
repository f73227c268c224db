package community

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/community"
	"github.com/mead/backend/internal/domain/identity"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockFollowRepository is a mock implementation of FollowRepository
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Add(ctx context.Context, edge community.FollowEdge) (bool, error) {
	args := m.Called(ctx, edge)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Remove(ctx context.Context, followerID, storefrontID uuid.UUID) (bool, error) {
	args := m.Called(ctx, followerID, storefrontID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Exists(ctx context.Context, followerID, storefrontID uuid.UUID) (bool, error) {
	args := m.Called(ctx, followerID, storefrontID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) FollowersOf(ctx context.Context, storefrontID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, storefrontID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockFollowRepository) FollowingOf(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// memoryStore backs the account, product, follow and message repositories
// used by the aggregator tests
type memoryStore struct {
	mu       sync.Mutex
	accounts []*identity.Account
	products []*catalog.Product
	edges    []community.FollowEdge
	messages map[uuid.UUID][]*community.Message
}

func newMemoryStore() *memoryStore {
	return &memoryStore{messages: make(map[uuid.UUID][]*community.Message)}
}

type memoryAccounts struct{ *memoryStore }

func (s memoryAccounts) FindByID(_ context.Context, id uuid.UUID) (*identity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s memoryAccounts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*identity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*identity.Account
	for _, a := range s.accounts {
		if slices.Contains(ids, a.ID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s memoryAccounts) FindByEmail(_ context.Context, email string) (*identity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s memoryAccounts) FindAll(_ context.Context, filter shared.Filter) ([]*identity.Account, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := int64(len(s.accounts))
	start := min(filter.Offset(), len(s.accounts))
	end := min(start+filter.PageSize, len(s.accounts))
	return s.accounts[start:end], total, nil
}

func (s memoryAccounts) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return err == nil, nil
}

func (s memoryAccounts) Save(_ context.Context, account *identity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.accounts {
		if a.ID == account.ID {
			s.accounts[i] = account
			return nil
		}
	}
	s.accounts = append(s.accounts, account)
	return nil
}

type memoryProducts struct{ *memoryStore }

func (s memoryProducts) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s memoryProducts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*catalog.Product
	for _, p := range s.products {
		if slices.Contains(ids, p.ID) {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindBySeller returns the seller's products, last inserted first
func (s memoryProducts) FindBySeller(_ context.Context, sellerID uuid.UUID) ([]*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*catalog.Product
	for i := len(s.products) - 1; i >= 0; i-- {
		if s.products[i].SellerID == sellerID {
			out = append(out, s.products[i])
		}
	}
	return out, nil
}

func (s memoryProducts) FindAll(_ context.Context, _ shared.Filter) ([]*catalog.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products, int64(len(s.products)), nil
}

func (s memoryProducts) Save(_ context.Context, product *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, product)
	return nil
}

func (s memoryProducts) SaveWithLock(ctx context.Context, product *catalog.Product, _ int) error {
	return nil
}

func (s memoryProducts) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = slices.DeleteFunc(s.products, func(p *catalog.Product) bool { return p.ID == id })
	return nil
}

type memoryFollows struct{ *memoryStore }

func (s memoryFollows) Add(_ context.Context, edge community.FollowEdge) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.edges {
		if e.FollowerID == edge.FollowerID && e.StorefrontID == edge.StorefrontID {
			return false, nil
		}
	}
	s.edges = append(s.edges, edge)
	return true, nil
}

func (s memoryFollows) Remove(_ context.Context, followerID, storefrontID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.edges)
	s.edges = slices.DeleteFunc(s.edges, func(e community.FollowEdge) bool {
		return e.FollowerID == followerID && e.StorefrontID == storefrontID
	})
	return len(s.edges) < before, nil
}

func (s memoryFollows) Exists(_ context.Context, followerID, storefrontID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.edges, func(e community.FollowEdge) bool {
		return e.FollowerID == followerID && e.StorefrontID == storefrontID
	}), nil
}

func (s memoryFollows) FollowersOf(_ context.Context, storefrontID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []uuid.UUID
	for _, e := range s.edges {
		if e.StorefrontID == storefrontID {
			out = append(out, e.FollowerID)
		}
	}
	return out, nil
}

func (s memoryFollows) FollowingOf(_ context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []uuid.UUID
	for _, e := range s.edges {
		if e.FollowerID == followerID {
			out = append(out, e.StorefrontID)
		}
	}
	return out, nil
}

type memoryMessages struct{ *memoryStore }

func (s memoryMessages) Append(_ context.Context, msg *community.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.CommunityID] = append(s.messages[msg.CommunityID], msg)
	return nil
}

func (s memoryMessages) ListByCommunity(_ context.Context, communityID uuid.UUID, limit int) ([]*community.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.messages[communityID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return slices.Clone(all), nil
}

func (s memoryMessages) Last(_ context.Context, communityID uuid.UUID) (*community.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.messages[communityID]
	if len(all) == 0 {
		return nil, nil
	}
	return all[len(all)-1], nil
}
