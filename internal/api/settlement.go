package api

import (
	"net/http"

	"marketplace-api/internal/database"
	"marketplace-api/internal/response"
	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
)

// SettleCreditRequest represents settle credit request
type SettleCreditRequest struct {
	TransactionHash string `json:"transaction_hash" binding:"required"`
}

// SettleCredit pays off the caller's outstanding credit usage with an external
// payment reference and restores the credit allowance
// POST /api/purchases/settle-credit
func SettleCredit(c *gin.Context) {
	var req SettleCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	settlementService := services.NewSettlementService()
	result, err := settlementService.SettleCredit(accountID(c), req.TransactionHash)
	if err != nil {
		response.ErrorJSON(c, statusForError(err), err.Error())
		return
	}

	// Best-effort receipt email, never blocks the response
	if account, err := database.GetAccountByAccountID(accountID(c)); err == nil {
		go services.NewEmailService().SendSettlementReceipt(account, result, req.TransactionHash)
	}

	response.SuccessJSON(c, result)
}
