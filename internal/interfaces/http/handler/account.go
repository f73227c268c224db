package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/mead/backend/internal/application/identity"
)

// AccountHandler handles account endpoints
type AccountHandler struct {
	BaseHandler
	accountService *identityapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *identityapp.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Me returns the authenticated account
// GET /accounts/me
func (h *AccountHandler) Me(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	account, err := h.accountService.Get(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}
