package trade

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/identity"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/mead/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.Account, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*identity.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.Account, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.Account), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *identity.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]*catalog.Product, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product, expectedVersion int) error {
	return m.Called(ctx, product, expectedVersion).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]*trade.Order, int64, error) {
	args := m.Called(ctx, buyerID, filter)
	return args.Get(0).([]*trade.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*trade.Order, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*trade.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockOrderMetrics is a mock implementation of OrderMetrics
type MockOrderMetrics struct {
	mock.Mock
}

func (m *MockOrderMetrics) RecordOrderPlaced(ctx context.Context, lineCount int, total decimal.Decimal) {
	m.Called(ctx, lineCount, total)
}

// memoryCartRepository stores carts in a map. Save replaces the stored cart.
type MockCartMetrics struct {
	mock.Mock
}

func (m *MockCartMetrics) RecordCartMutation(ctx context.Context, operation string) {
	m.Called(ctx, operation)
}

type memoryCartRepository struct {
	mu      sync.Mutex
	carts   map[uuid.UUID]trade.Cart
	saves   int
	clearFn func(uuid.UUID) error
	onLoad  func()
}

func newMemoryCartRepository() *memoryCartRepository {
	return &memoryCartRepository{carts: map[uuid.UUID]trade.Cart{}}
}

func (r *memoryCartRepository) Load(_ context.Context, buyerID uuid.UUID) (trade.Cart, error) {
	r.mu.Lock()
	c, ok := r.carts[buyerID]
	hook := r.onLoad
	r.onLoad = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	if ok {
		return c, nil
	}
	return trade.EmptyCart(), nil
}

func (r *memoryCartRepository) Save(_ context.Context, buyerID uuid.UUID, cart trade.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[buyerID] = cart
	r.saves++
	return nil
}

func (r *memoryCartRepository) Clear(_ context.Context, buyerID uuid.UUID) error {
	if r.clearFn != nil {
		if err := r.clearFn(buyerID); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, buyerID)
	return nil
}

func newSeller() *identity.Account {
	a, _ := identity.NewAccount("seller@example.com", "Seller", identity.RoleSeller)
	return a
}

func newBuyer() *identity.Account {
	a, _ := identity.NewAccount("buyer@example.com", "Buyer", identity.RoleClassic)
	return a
}

func newProduct(sellerID uuid.UUID, title string, price int64) *catalog.Product {
	p, _ := catalog.NewProduct(sellerID, catalog.ProductDetails{
		Title: title,
		Price: decimal.NewFromInt(price),
		Stock: 10,
	})
	return p
}
