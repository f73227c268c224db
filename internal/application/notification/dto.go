package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/notification"
)

// FanoutResult reports which followers received a notification
type FanoutResult struct {
	NotificationID uuid.UUID   `json:"notification_id"`
	Delivered      []uuid.UUID `json:"delivered"`
	Failed         []uuid.UUID `json:"failed"`
}

// RetryFanoutRequest re-appends a notification for the given followers
type RetryFanoutRequest struct {
	FollowerIDs []uuid.UUID `json:"follower_ids" binding:"required,min=1"`
}

// InboxItemResponse is one inbox entry with its notification
type InboxItemResponse struct {
	NotificationID uuid.UUID            `json:"notification_id"`
	Kind           notification.Kind    `json:"kind"`
	EmitterID      uuid.UUID            `json:"emitter_id"`
	Payload        notification.Payload `json:"payload"`
	Read           bool                 `json:"read"`
	ReadAt         *time.Time           `json:"read_at"`
	CreatedAt      time.Time            `json:"created_at"`
}

// InboxFilter represents paging options for the inbox
type InboxFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UnreadCountResponse is the number of unread inbox entries
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// ToInboxItemResponse converts a resolved inbox item
func ToInboxItemResponse(item notification.InboxItem) InboxItemResponse {
	resp := InboxItemResponse{
		NotificationID: item.Entry.NotificationID,
		Read:           item.Entry.IsRead(),
		ReadAt:         item.Entry.ReadAt,
		CreatedAt:      item.Entry.CreatedAt,
	}
	if item.Record != nil {
		resp.Kind = item.Record.Kind
		resp.EmitterID = item.Record.EmitterID
		resp.Payload = item.Record.Payload
	}
	return resp
}
