package api

import (
	"net/http"

	"marketplace-api/internal/database"
	"marketplace-api/internal/response"
	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateContentRequest represents create listing request
type CreateContentRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	StorageKey  string `json:"storage_key"`
}

// CreateContent creates a content listing for the caller
// POST /api/contents
func CreateContent(c *gin.Context) {
	var req CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid price: "+err.Error())
		return
	}

	contentService := services.NewContentService()
	content, err := contentService.CreateListing(accountID(c), req.Title, req.Description, req.StorageKey, price)
	if err != nil {
		response.ErrorJSON(c, statusForError(err), err.Error())
		return
	}

	response.JSON(c, http.StatusCreated, response.Success(content))
}

// ListContents returns all active listings
// GET /api/contents
func ListContents(c *gin.Context) {
	contents, err := database.ListActiveContents()
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to list contents")
		return
	}

	response.SuccessJSON(c, contents)
}

// GetContent returns one listing
// GET /api/contents/:id
func GetContent(c *gin.Context) {
	content, err := database.GetContentByContentID(c.Param("id"))
	if err != nil {
		response.ErrorJSON(c, http.StatusNotFound, "Content not found")
		return
	}

	response.SuccessJSON(c, content)
}
