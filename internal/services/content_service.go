package services

import (
	"marketplace-api/internal/database"
	"marketplace-api/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContentService manages content listings. The files themselves live at the
// external encrypted storage provider; listings only carry the opaque key.
type ContentService struct {
	db *gorm.DB
}

// NewContentService creates a new content service
func NewContentService() *ContentService {
	return &ContentService{
		db: database.GetDB(),
	}
}

// CreateListing creates a content listing for the creator
func (s *ContentService) CreateListing(creatorID, title, description, storageKey string, price decimal.Decimal) (*models.Content, error) {
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	content := models.Content{
		ContentID:   uuid.NewString(),
		CreatorID:   creatorID,
		Title:       title,
		Description: description,
		Price:       price,
		StorageKey:  storageKey,
		IsActive:    true,
	}
	if err := s.db.Create(&content).Error; err != nil {
		return nil, err
	}
	return &content, nil
}
