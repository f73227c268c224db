package trade

import (
	"context"

	"github.com/mead/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to trade repositories.
// Repository calls made through the repos passed to fn commit or roll back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to trade repositories within a transaction.
type TransactionalRepositories interface {
	OrderRepo() trade.OrderRepository
	CartRepo() trade.CartRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	orderRepo trade.OrderRepository
	cartRepo  trade.CartRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(orderRepo trade.OrderRepository, cartRepo trade.CartRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orderRepo: orderRepo, cartRepo: cartRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository {
	return s.orderRepo
}

// CartRepo returns the cart repository.
func (s *NoOpTransactionScope) CartRepo() trade.CartRepository {
	return s.cartRepo
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
