package api

import (
	"net/http"

	"marketplace-api/internal/database"
	"marketplace-api/internal/response"
	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
)

// CreatePurchaseRequest represents purchase request
type CreatePurchaseRequest struct {
	ContentID string `json:"content_id" binding:"required"`
}

// CreatePurchase buys a content item on the caller's credit
// POST /api/purchases
func CreatePurchase(c *gin.Context) {
	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	purchaseService := services.NewPurchaseService()
	result, err := purchaseService.Purchase(accountID(c), req.ContentID)
	if err != nil {
		response.ErrorJSON(c, statusForError(err), err.Error())
		return
	}

	response.JSON(c, http.StatusCreated, response.Success(result))
}

// ListPurchases returns the caller's purchase history
// GET /api/purchases
func ListPurchases(c *gin.Context) {
	purchases, err := database.ListPurchasesByBuyer(accountID(c))
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to list purchases")
		return
	}

	response.SuccessJSON(c, purchases)
}

// GetCreditBalance returns the caller's credit balance and outstanding total.
// The credit account is created lazily on first query.
// GET /api/purchases/credit-balance
func GetCreditBalance(c *gin.Context) {
	creditService := services.NewCreditService()
	credit, err := creditService.GetOrCreate(accountID(c))
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load credit account")
		return
	}

	purchaseService := services.NewPurchaseService()
	outstanding, err := purchaseService.OutstandingTotal(accountID(c))
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to compute outstanding total")
		return
	}

	response.SuccessJSON(c, gin.H{
		"balance":     credit.Balance,
		"outstanding": outstanding,
	})
}
