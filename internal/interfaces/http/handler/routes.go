package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mead/backend/internal/interfaces/http/middleware"
	"github.com/mead/backend/internal/interfaces/http/router"
)

// Handlers bundles every API handler for route registration
type Handlers struct {
	Account      *AccountHandler
	Cart         *CartHandler
	Order        *OrderHandler
	Product      *ProductHandler
	Community    *CommunityHandler
	Notification *NotificationHandler
}

// RouteGroups returns the domain route groups of the API. Authentication
// is applied by the API-level middleware; role checks are added here.
func RouteGroups(h Handlers) []router.RouteRegistrar {
	return []router.RouteRegistrar{
		AccountRoutes(h.Account),
		CartRoutes(h.Cart, h.Order),
		OrderRoutes(h.Order),
		ProductRoutes(h.Product),
		CommunityRoutes(h.Community),
		NotificationRoutes(h.Notification),
	}
}

// AccountRoutes creates the route group for account endpoints
func AccountRoutes(h *AccountHandler) *router.DomainGroup {
	return router.NewDomainGroup("accounts", "/accounts").
		GET("/me", h.Me)
}

// CartRoutes creates the route group for cart endpoints. The checkout
// preview sits beside the cart since it reads the same state.
func CartRoutes(cart *CartHandler, order *OrderHandler) *router.DomainGroup {
	return router.NewDomainGroup("cart", "").
		GET("/cart", cart.Get).
		DELETE("/cart", cart.Clear).
		POST("/cart/items/:product_id", cart.AddItem).
		POST("/cart/items/:product_id/decrement", cart.SubtractItem).
		PUT("/cart/items/:product_id", cart.SetItem).
		DELETE("/cart/items/:product_id", cart.RemoveItem).
		GET("/checkout", order.Checkout)
}

// OrderRoutes creates the route group for order endpoints
func OrderRoutes(h *OrderHandler) *router.DomainGroup {
	return router.NewDomainGroup("orders", "/orders").
		POST("", h.Place).
		GET("", h.List).
		GET("/all", middleware.RequireAdmin(), h.ListAll).
		GET("/:id", h.Get).
		DELETE("/:id", middleware.RequireAdmin(), h.Delete)
}

// ProductRoutes creates the route group for product endpoints
func ProductRoutes(h *ProductHandler) *router.DomainGroup {
	return router.NewDomainGroup("products", "/products").
		GET("", h.List).
		GET("/mine", middleware.RequireSeller(), h.ListMine).
		GET("/:id", h.Get).
		POST("", middleware.RequireSeller(), h.Create).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

// CommunityRoutes creates the route group for storefront endpoints
func CommunityRoutes(h *CommunityHandler) *router.DomainGroup {
	return router.NewDomainGroup("communities", "/communities").
		GET("", h.ListFeeds).
		GET("/me", h.GetMyFeed).
		PUT("/me", h.UpdateStorefront).
		GET("/digest", h.GetDigest).
		GET("/:id", h.GetFeed).
		GET("/:id/follow", h.FollowStatus).
		PUT("/:id/follow", h.Follow).
		DELETE("/:id/follow", h.Unfollow).
		GET("/:id/messages", h.ListMessages).
		POST("/:id/messages", h.PostMessage)
}

// NotificationRoutes creates the route group for inbox endpoints
func NotificationRoutes(h *NotificationHandler) *router.DomainGroup {
	return router.NewDomainGroup("notifications", "/notifications").
		GET("", h.List).
		GET("/unread-count", h.UnreadCount).
		PUT("/:id/read", h.MarkRead).
		POST("/:id/retry", middleware.RequireAdmin(), h.Retry)
}

// SystemRoutes mounts the unauthenticated health and info endpoints
func SystemRoutes(engine *gin.Engine, h *SystemHandler) {
	engine.GET("/health", h.Health)
	engine.GET("/api/v1/health", h.Health)
	engine.GET("/api/v1/system/info", h.Info)
}
