package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	notificationapp "github.com/mead/backend/internal/application/notification"
	"github.com/mead/backend/internal/domain/notification"
	"github.com/mead/backend/internal/interfaces/http/dto"
)

// NotificationHandler handles inbox endpoints and fan-out retries
type NotificationHandler struct {
	BaseHandler
	inboxService  *notificationapp.InboxService
	fanoutService *notificationapp.FanoutService
	paging        Paging
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(inboxService *notificationapp.InboxService, fanoutService *notificationapp.FanoutService, paging Paging) *NotificationHandler {
	return &NotificationHandler{
		inboxService:  inboxService,
		fanoutService: fanoutService,
		paging:        paging,
	}
}

// List returns a page of the caller's inbox, newest first
// GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter notificationapp.InboxFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	filter.PageSize = h.paging.pageSize(filter.PageSize)

	page, err := h.inboxService.ListInbox(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	successPage(c, page)
}

// UnreadCount returns the number of unread inbox entries
// GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	count, err := h.inboxService.UnreadCount(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// MarkRead marks one inbox entry as read
// PUT /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	notificationID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	item, err := h.inboxService.MarkRead(c.Request.Context(), accountID, notificationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Retry re-appends a notification to the given followers' inboxes.
// Answers 207 with the per-follower result when some appends fail again.
// POST /notifications/:id/retry
func (h *NotificationHandler) Retry(c *gin.Context) {
	notificationID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req notificationapp.RetryFanoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.fanoutService.Retry(c.Request.Context(), notificationID, req.FollowerIDs)
	var partial *notification.PartialFanoutFailure
	switch {
	case err == nil:
		h.Success(c, result)
	case errors.As(err, &partial) && result != nil:
		resp := dto.NewSuccessResponse(result)
		resp.Success = false
		resp.Error = &dto.ErrorInfo{
			Code:    partial.DomainError().Code,
			Message: partial.Error(),
		}
		c.JSON(http.StatusMultiStatus, resp)
	default:
		h.HandleError(c, err)
	}
}
