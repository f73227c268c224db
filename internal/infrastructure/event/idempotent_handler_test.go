package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/mead/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockEventHandler is a mock implementation of shared.EventHandler
type MockEventHandler struct {
	mock.Mock
}

func (m *MockEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventHandler) EventTypes() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Forget(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func keyOf(event shared.DomainEvent) string {
	return event.EventType() + ":" + event.EventID().String()
}

func TestIdempotentHandler_Handle_NewEvent(t *testing.T) {
	inner := new(MockEventHandler)
	store := new(MockIdempotencyStore)
	event := newTestEvent("ProductCreated")

	store.On("MarkProcessed", mock.Anything, keyOf(event), 24*time.Hour).Return(true, nil)
	inner.On("Handle", mock.Anything, event).Return(nil)

	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	require.NoError(t, handler.Handle(context.Background(), event))

	inner.AssertExpectations(t)
	store.AssertExpectations(t)
	assert.Equal(t, int64(1), handler.Stats().EventsProcessed)
}

func TestIdempotentHandler_Handle_DuplicateEvent(t *testing.T) {
	inner := new(MockEventHandler)
	store := new(MockIdempotencyStore)
	event := newTestEvent("ProductCreated")

	store.On("MarkProcessed", mock.Anything, keyOf(event), mock.Anything).Return(false, nil)

	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	require.NoError(t, handler.Handle(context.Background(), event))

	inner.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	assert.Equal(t, int64(1), handler.Stats().EventsDuplicate)
}

func TestIdempotentHandler_Handle_HandlerErrorReleasesMark(t *testing.T) {
	inner := new(MockEventHandler)
	store := new(MockIdempotencyStore)
	event := newTestEvent("ProductCreated")
	handlerErr := errors.New("database unavailable")

	store.On("MarkProcessed", mock.Anything, keyOf(event), mock.Anything).Return(true, nil)
	store.On("Forget", mock.Anything, keyOf(event)).Return(nil)
	inner.On("Handle", mock.Anything, event).Return(handlerErr)

	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	err := handler.Handle(context.Background(), event)

	assert.ErrorIs(t, err, handlerErr)
	store.AssertExpectations(t)
	assert.Equal(t, int64(1), handler.Stats().EventsFailed)
}

func TestIdempotentHandler_Handle_StoreErrorStillProcesses(t *testing.T) {
	inner := new(MockEventHandler)
	store := new(MockIdempotencyStore)
	event := newTestEvent("ProductCreated")

	store.On("MarkProcessed", mock.Anything, keyOf(event), mock.Anything).Return(false, errors.New("redis down"))
	inner.On("Handle", mock.Anything, event).Return(nil)

	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	require.NoError(t, handler.Handle(context.Background(), event))

	inner.AssertExpectations(t)
	assert.Equal(t, int64(1), handler.Stats().EventsProcessed)
}

func TestIdempotentHandler_Handle_Disabled(t *testing.T) {
	inner := new(MockEventHandler)
	store := new(MockIdempotencyStore)
	event := newTestEvent("ProductCreated")
	inner.On("Handle", mock.Anything, event).Return(nil).Twice()

	handler := NewIdempotentHandler(inner, store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}))

	require.NoError(t, handler.Handle(context.Background(), event))
	require.NoError(t, handler.Handle(context.Background(), event))

	inner.AssertExpectations(t)
	store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdempotentHandler_CustomTTL(t *testing.T) {
	inner := new(MockEventHandler)
	store := new(MockIdempotencyStore)
	event := newTestEvent("ProductCreated")

	store.On("MarkProcessed", mock.Anything, keyOf(event), time.Hour).Return(true, nil)
	inner.On("Handle", mock.Anything, event).Return(nil)

	handler := NewIdempotentHandler(inner, store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: true, TTL: time.Hour}))
	require.NoError(t, handler.Handle(context.Background(), event))

	store.AssertExpectations(t)
}

func TestIdempotentHandler_EventTypes(t *testing.T) {
	inner := new(MockEventHandler)
	inner.On("EventTypes").Return([]string{"ProductCreated"})

	handler := NewIdempotentHandler(inner, new(MockIdempotencyStore), nil)

	assert.Equal(t, []string{"ProductCreated"}, handler.EventTypes())
}

func TestIdempotentHandler_RedeliveredThroughBus(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := newTestHandler("ProductCreated")
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewIdempotentHandler(inner, store, zap.NewNop()))

	event := newTestEvent("ProductCreated")
	require.NoError(t, bus.Publish(context.Background(), event, event))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ProductCreated")))

	assert.Len(t, inner.getHandled(), 2)
}

func TestIdempotentHandler_RetryAfterFailure(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := newTestHandler("ProductCreated")
	inner.err = errors.New("transient")
	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	event := newTestEvent("ProductCreated")

	require.Error(t, handler.Handle(context.Background(), event))

	inner.err = nil
	require.NoError(t, handler.Handle(context.Background(), event))
	require.NoError(t, handler.Handle(context.Background(), event))

	assert.Len(t, inner.getHandled(), 2)
	assert.Equal(t, IdempotencyStats{EventsProcessed: 1, EventsDuplicate: 1, EventsFailed: 1}, handler.Stats())
}

func TestIdempotentHandler_ConcurrentDuplicates(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := new(MockEventHandler)
	event := &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent("ProductCreated", "Product", uuid.New())}
	inner.On("Handle", mock.Anything, event).Return(nil).Once()

	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	const workers = 50
	errs := make(chan error, workers)
	for range workers {
		go func() {
			errs <- handler.Handle(context.Background(), event)
		}()
	}
	for range workers {
		assert.NoError(t, <-errs)
	}

	inner.AssertExpectations(t)
	assert.Equal(t, int64(workers-1), handler.Stats().EventsDuplicate)
}
