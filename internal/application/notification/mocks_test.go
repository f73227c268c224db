package notification

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/community"
	"github.com/mead/backend/internal/domain/notification"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockRecordRepository is a mock implementation of RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Create(ctx context.Context, record *notification.Record) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Record), args.Error(1)
}

func (m *MockRecordRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*notification.Record, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*notification.Record), args.Error(1)
}

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

// MockDeliverer is a mock implementation of Deliverer
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(ctx context.Context, record *notification.Record, recipients []uuid.UUID) error {
	return m.Called(ctx, record, recipients).Error(0)
}

// MockFanoutMetrics is a mock implementation of FanoutMetrics
type MockFanoutMetrics struct {
	mock.Mock
}

func (m *MockFanoutMetrics) RecordFanout(ctx context.Context, kind notification.Kind, delivered, failed int) {
	m.Called(ctx, kind, delivered, failed)
}

// memoryInbox is an InboxRepository keyed by (account, notification).
// failFor makes Append fail for the listed accounts.
type memoryInbox struct {
	mu      sync.Mutex
	entries []notification.InboxEntry
	failFor map[uuid.UUID]error
	appends int
}

func newMemoryInbox() *memoryInbox {
	return &memoryInbox{failFor: make(map[uuid.UUID]error)}
}

func (r *memoryInbox) Append(_ context.Context, entry notification.InboxEntry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appends++
	if err := r.failFor[entry.AccountID]; err != nil {
		return false, err
	}
	for _, e := range r.entries {
		if e.AccountID == entry.AccountID && e.NotificationID == entry.NotificationID {
			return false, nil
		}
	}
	r.entries = append(r.entries, entry)
	return true, nil
}

func (r *memoryInbox) ListByAccount(_ context.Context, accountID uuid.UUID, filter shared.Filter) ([]notification.InboxEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.InboxEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].AccountID == accountID {
			out = append(out, r.entries[i])
		}
	}
	total := int64(len(out))
	start := min(filter.Offset(), len(out))
	end := min(start+filter.PageSize, len(out))
	return out[start:end], total, nil
}

func (r *memoryInbox) MarkRead(_ context.Context, accountID, notificationID uuid.UUID) (*notification.InboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		e := &r.entries[i]
		if e.AccountID == accountID && e.NotificationID == notificationID {
			if e.ReadAt == nil {
				now := e.CreatedAt.Add(1)
				e.ReadAt = &now
			}
			entry := *e
			return &entry, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryInbox) CountUnread(_ context.Context, accountID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.entries {
		if e.AccountID == accountID && !e.IsRead() {
			n++
		}
	}
	return n, nil
}

func (r *memoryInbox) countFor(accountID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.AccountID == accountID {
			n++
		}
	}
	return n
}
