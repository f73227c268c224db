package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/notification"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/samber/lo"
)

const maxInboxPageSize = 100

// InboxService reads and acknowledges an account's notifications
type InboxService struct {
	inboxRepo  notification.InboxRepository
	recordRepo notification.RecordRepository
}

// NewInboxService creates a new InboxService
func NewInboxService(inboxRepo notification.InboxRepository, recordRepo notification.RecordRepository) *InboxService {
	return &InboxService{
		inboxRepo:  inboxRepo,
		recordRepo: recordRepo,
	}
}

// ListInbox returns the account's notifications, newest first
func (s *InboxService) ListInbox(ctx context.Context, accountID uuid.UUID, filter InboxFilter) (*shared.Paginated[InboxItemResponse], error) {
	domainFilter := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize(maxInboxPageSize)

	entries, total, err := s.inboxRepo.ListByAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, err
	}

	ids := lo.Map(entries, func(e notification.InboxEntry, _ int) uuid.UUID { return e.NotificationID })
	records := map[uuid.UUID]*notification.Record{}
	if len(ids) > 0 {
		found, err := s.recordRepo.FindByIDs(ctx, lo.Uniq(ids))
		if err != nil {
			return nil, err
		}
		records = lo.KeyBy(found, func(r *notification.Record) uuid.UUID { return r.ID })
	}

	items := lo.Map(entries, func(e notification.InboxEntry, _ int) InboxItemResponse {
		return ToInboxItemResponse(notification.InboxItem{Entry: e, Record: records[e.NotificationID]})
	})
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// MarkRead marks one notification as read. Marking twice keeps the first read time.
func (s *InboxService) MarkRead(ctx context.Context, accountID, notificationID uuid.UUID) (*InboxItemResponse, error) {
	entry, err := s.inboxRepo.MarkRead(ctx, accountID, notificationID)
	if err != nil {
		return nil, err
	}
	record, err := s.recordRepo.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	response := ToInboxItemResponse(notification.InboxItem{Entry: *entry, Record: record})
	return &response, nil
}

// UnreadCount returns the number of unread notifications
func (s *InboxService) UnreadCount(ctx context.Context, accountID uuid.UUID) (*UnreadCountResponse, error) {
	count, err := s.inboxRepo.CountUnread(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Unread: count}, nil
}
