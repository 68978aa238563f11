package api

import (
	"net/http"

	"marketplace-api/internal/database"
	"marketplace-api/internal/response"
	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
)

// GetAccount returns the caller's profile and creator aggregates
// GET /api/account
func GetAccount(c *gin.Context) {
	account, err := database.GetAccountByAccountID(accountID(c))
	if err != nil {
		response.ErrorJSON(c, http.StatusNotFound, "Account not found")
		return
	}

	response.SuccessJSON(c, account)
}

// UpdateAccountRequest represents profile update request
type UpdateAccountRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// UpdateAccount updates display name and email
// PUT /api/account
func UpdateAccount(c *gin.Context) {
	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.DisplayName != "" {
		updates["display_name"] = req.DisplayName
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}

	accountService := services.NewAccountService()
	if err := accountService.UpdateProfile(accountID(c), updates); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	response.SuccessJSON(c, nil)
}

// UpdatePayoutAddressRequest represents payout address update request
type UpdatePayoutAddressRequest struct {
	PayoutAddress string `json:"payout_address" binding:"required"`
}

// UpdatePayoutAddress sets the address claim payouts are sent to
// PUT /api/account/payout-address
func UpdatePayoutAddress(c *gin.Context) {
	var req UpdatePayoutAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	accountService := services.NewAccountService()
	if err := accountService.UpdatePayoutAddress(accountID(c), req.PayoutAddress); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	response.SuccessJSON(c, nil)
}
