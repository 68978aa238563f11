package api

import (
	"errors"
	"net/http"

	"marketplace-api/internal/middleware"
	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine) {
	RegisterAPIRoutes(r, middleware.AccountAuthMiddleware())
}

// RegisterAPIRoutes registers the API surface with the given auth middleware.
// Tests pass a stub that injects the account id directly.
func RegisterAPIRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	api := r.Group("/api")
	{
		// Wallet login (no authentication; the token is issued here)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", Login)
		}
		authedAuth := api.Group("/auth")
		authedAuth.Use(auth)
		{
			authedAuth.POST("/logout", Logout)
		}

		// Account profile
		account := api.Group("/account")
		account.Use(auth)
		{
			account.GET("", GetAccount)
			account.PUT("", UpdateAccount)
			account.PUT("/payout-address", UpdatePayoutAddress)
		}

		// Content listings (reads are public)
		api.GET("/contents", ListContents)
		api.GET("/contents/:id", GetContent)
		contents := api.Group("/contents")
		contents.Use(auth)
		{
			contents.POST("", CreateContent)
		}

		// Purchases, settlement and earnings
		purchases := api.Group("/purchases")
		purchases.Use(auth)
		{
			purchases.POST("", CreatePurchase)
			purchases.GET("", ListPurchases)
			purchases.GET("/credit-balance", GetCreditBalance)
			purchases.POST("/settle-credit", SettleCredit)
			purchases.GET("/creator-earnings", GetCreatorEarnings)
			purchases.POST("/claim-earnings", ClaimEarnings)
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "marketplace-api",
		})
	})
}

// statusForError maps workflow errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidReference),
		errors.Is(err, services.ErrContentInactive),
		errors.Is(err, services.ErrOwnContent),
		errors.Is(err, services.ErrNoPayoutAddress):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInsufficientCredit):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrContentNotFound),
		errors.Is(err, services.ErrCreditAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyPurchased),
		errors.Is(err, services.ErrDuplicateSettlement),
		errors.Is(err, services.ErrNothingToSettle),
		errors.Is(err, services.ErrNoPendingEarnings),
		errors.Is(err, services.ErrExceedsClaimable):
		return http.StatusConflict
	case errors.Is(err, services.ErrPayoutFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// accountID reads the authenticated account id from the gin context
func accountID(c *gin.Context) string {
	if id, exists := c.Get("account_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
