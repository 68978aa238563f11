package api

import (
	"net/http"

	"marketplace-api/internal/response"
	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
)

// LoginRequest represents wallet login request
type LoginRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	DisplayName   string `json:"display_name"`
}

// Login resolves or creates the account for a wallet address and issues a
// bearer token. Signature verification happens on the client side against the
// third-party auth-message issuer; by the time this endpoint is called the
// wallet address is the resolved credential.
// POST /api/auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	accountService := services.NewAccountService()
	account, err := accountService.GetOrCreateByWallet(req.WalletAddress)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.DisplayName != "" && account.DisplayName == "" {
		if err := accountService.UpdateProfile(account.AccountID, map[string]interface{}{
			"display_name": req.DisplayName,
		}); err == nil {
			account.DisplayName = req.DisplayName
		}
	}

	sessionService := services.NewSessionService()
	token, err := sessionService.GenerateToken()
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to issue session token")
		return
	}
	if err := sessionService.StoreSession(token, account.AccountID); err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to store session")
		return
	}

	response.SuccessJSON(c, gin.H{
		"token":   token,
		"account": account,
	})
}

// Logout revokes the caller's bearer token
// POST /api/auth/logout
func Logout(c *gin.Context) {
	token, exists := c.Get("bearer_token")
	if !exists {
		response.ErrorJSON(c, http.StatusUnauthorized, "Missing bearer token")
		return
	}

	sessionService := services.NewSessionService()
	if err := sessionService.RevokeSession(token.(string)); err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to revoke session")
		return
	}

	response.SuccessJSON(c, nil)
}
