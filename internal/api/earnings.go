package api

import (
	"net/http"

	"marketplace-api/internal/database"
	"marketplace-api/internal/response"
	"marketplace-api/internal/services"
	"marketplace-api/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetCreatorEarnings returns the caller's earnings summary and pending queue
// GET /api/purchases/creator-earnings
func GetCreatorEarnings(c *gin.Context) {
	earningService := services.NewEarningService()

	summary, err := earningService.Summarize(accountID(c))
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to summarize earnings")
		return
	}

	pending, err := earningService.ListPending(accountID(c))
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to list pending earnings")
		return
	}

	response.SuccessJSON(c, gin.H{
		"summary": summary,
		"pending": pending,
	})
}

// ClaimEarningsRequest represents claim earnings request
type ClaimEarningsRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// ClaimEarnings withdraws pending earnings to the caller's payout address
// POST /api/purchases/claim-earnings
func ClaimEarnings(c *gin.Context) {
	var req ClaimEarningsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid amount: "+err.Error())
		return
	}

	sessionService := services.NewSessionService()
	if cooling, err := sessionService.CheckClaimCooldown(accountID(c)); err == nil && cooling {
		response.ErrorJSON(c, http.StatusTooManyRequests, "Please wait before claiming again")
		return
	}

	claimService := services.NewClaimService(nil)
	result, err := claimService.ClaimEarnings(accountID(c), amount)
	if err != nil {
		response.ErrorJSON(c, statusForError(err), err.Error())
		return
	}

	// Cooldown is advisory, the claim already succeeded
	if err := sessionService.SetClaimCooldown(accountID(c)); err != nil {
		logging.Warnf("Failed to set claim cooldown for %s: %v", accountID(c), err)
	}

	// Best-effort receipt email, never blocks the response
	if account, err := database.GetAccountByAccountID(accountID(c)); err == nil {
		go services.NewEmailService().SendClaimReceipt(account, result)
	}

	response.SuccessJSON(c, result)
}
