package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	communityapp "github.com/mead/backend/internal/application/community"
)

const defaultMessageLimit = 50

// messageQuery bounds a chat history request
type messageQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// FollowStatusResponse reports whether the caller follows a storefront
type FollowStatusResponse struct {
	StorefrontID uuid.UUID `json:"storefront_id"`
	Following    bool      `json:"following"`
}

// CommunityHandler handles storefront follow, feed and chat endpoints
type CommunityHandler struct {
	BaseHandler
	followService *communityapp.FollowService
	aggregator    *communityapp.Aggregator
	paging        Paging
}

// NewCommunityHandler creates a new CommunityHandler
func NewCommunityHandler(followService *communityapp.FollowService, aggregator *communityapp.Aggregator, paging Paging) *CommunityHandler {
	return &CommunityHandler{
		followService: followService,
		aggregator:    aggregator,
		paging:        paging,
	}
}

// Follow subscribes the caller to a storefront. Repeating it is a no-op.
// PUT /communities/:id/follow
func (h *CommunityHandler) Follow(c *gin.Context) {
	followerID, storefrontID, ok := h.followTarget(c)
	if !ok {
		return
	}
	if err := h.followService.Follow(c.Request.Context(), followerID, storefrontID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Unfollow removes the caller's subscription. Repeating it is a no-op.
// DELETE /communities/:id/follow
func (h *CommunityHandler) Unfollow(c *gin.Context) {
	followerID, storefrontID, ok := h.followTarget(c)
	if !ok {
		return
	}
	if err := h.followService.Unfollow(c.Request.Context(), followerID, storefrontID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// FollowStatus reports whether the caller follows a storefront
// GET /communities/:id/follow
func (h *CommunityHandler) FollowStatus(c *gin.Context) {
	followerID, storefrontID, ok := h.followTarget(c)
	if !ok {
		return
	}
	following, err := h.followService.IsFollowing(c.Request.Context(), followerID, storefrontID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, FollowStatusResponse{StorefrontID: storefrontID, Following: following})
}

// GetFeed returns the aggregated view of one storefront
// GET /communities/:id
func (h *CommunityHandler) GetFeed(c *gin.Context) {
	ownerID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	h.feed(c, ownerID)
}

// GetMyFeed returns the caller's own storefront
// GET /communities/me
func (h *CommunityHandler) GetMyFeed(c *gin.Context) {
	ownerID, ok := h.accountID(c)
	if !ok {
		return
	}
	h.feed(c, ownerID)
}

// GetDigest returns the feeds of every storefront the caller follows,
// most recently active first
// GET /communities/digest
func (h *CommunityHandler) GetDigest(c *gin.Context) {
	viewerID, ok := h.accountID(c)
	if !ok {
		return
	}
	digest, err := h.aggregator.GetDigest(c.Request.Context(), viewerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, digest)
}

// ListFeeds returns a page of storefronts
// GET /communities
func (h *CommunityHandler) ListFeeds(c *gin.Context) {
	var filter communityapp.FeedListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	filter.PageSize = h.paging.pageSize(filter.PageSize)

	page, err := h.aggregator.ListFeeds(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	successPage(c, page)
}

// UpdateStorefront edits the caller's storefront profile
// PUT /communities/me
func (h *CommunityHandler) UpdateStorefront(c *gin.Context) {
	ownerID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req communityapp.UpdateStorefrontRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	profile, err := h.aggregator.UpdateStorefront(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// ListMessages returns the latest chat messages of a storefront, oldest first
// GET /communities/:id/messages
func (h *CommunityHandler) ListMessages(c *gin.Context) {
	communityID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var query messageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultMessageLimit
	}

	messages, err := h.aggregator.ListMessages(c.Request.Context(), communityID, query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, messages)
}

// PostMessage appends a chat message to a storefront
// POST /communities/:id/messages
func (h *CommunityHandler) PostMessage(c *gin.Context) {
	authorID, ok := h.accountID(c)
	if !ok {
		return
	}
	communityID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req communityapp.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	msg, err := h.aggregator.PostMessage(c.Request.Context(), communityID, authorID, req.Content)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, msg)
}

func (h *CommunityHandler) feed(c *gin.Context, ownerID uuid.UUID) {
	feed, err := h.aggregator.GetFeed(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, feed)
}

func (h *CommunityHandler) followTarget(c *gin.Context) (followerID, storefrontID uuid.UUID, ok bool) {
	if followerID, ok = h.accountID(c); !ok {
		return
	}
	storefrontID, ok = h.uuidParam(c, "id")
	return
}
