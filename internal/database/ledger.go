package database

import (
	"marketplace-api/internal/models"

	"gorm.io/gorm"
)

// SetDB replaces the global database handle (used by tests)
func SetDB(db *gorm.DB) {
	DB = db
}

// GetAccountByAccountID looks up an account by its public account id
func GetAccountByAccountID(accountID string) (*models.Account, error) {
	var account models.Account
	err := DB.Where("account_id = ?", accountID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetContentByContentID looks up a content listing by its public id
func GetContentByContentID(contentID string) (*models.Content, error) {
	var content models.Content
	err := DB.Where("content_id = ?", contentID).First(&content).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// ListActiveContents returns all active listings, newest first
func ListActiveContents() ([]models.Content, error) {
	var contents []models.Content
	err := DB.Where("is_active = ?", true).Order("created_at DESC").Find(&contents).Error
	return contents, err
}

// ListPurchasesByBuyer returns a buyer's purchase history, newest first
func ListPurchasesByBuyer(buyerID string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := DB.Where("buyer_id = ?", buyerID).Order("created_at DESC").Find(&purchases).Error
	return purchases, err
}
