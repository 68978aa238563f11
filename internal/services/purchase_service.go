package services

import (
	"errors"
	"fmt"

	"marketplace-api/internal/database"
	"marketplace-api/internal/models"
	"marketplace-api/pkg/logging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseService handles the purchase workflow and the purchase record store
type PurchaseService struct {
	db *gorm.DB
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService() *PurchaseService {
	return &PurchaseService{
		db: database.GetDB(),
	}
}

// PurchaseResult is returned after a successful purchase
type PurchaseResult struct {
	Purchase      *models.Purchase `json:"purchase"`
	CreditBalance decimal.Decimal  `json:"credit_balance"`
}

// Purchase buys a content item on credit. The charge, the purchase record and
// the pending earning are written in one transaction; a crash can never leave
// the balance decremented without the purchase row.
func (s *PurchaseService) Purchase(buyerID, contentID string) (*PurchaseResult, error) {
	defaultLocker.Lock(buyerID)
	defer defaultLocker.Unlock(buyerID)

	var content models.Content
	if err := s.db.Where("content_id = ?", contentID).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	if !content.IsActive {
		return nil, ErrContentInactive
	}
	if content.CreatorID == buyerID {
		return nil, ErrOwnContent
	}

	var result PurchaseResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Pre-check under the buyer lock; the unique (buyer, content) index
		// is the backstop against other processes.
		var existing int64
		if err := tx.Model(&models.Purchase{}).
			Where("buyer_id = ? AND content_id = ?", buyerID, contentID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyPurchased
		}

		credit, err := chargeCredit(tx, buyerID, content.Price)
		if err != nil {
			return err
		}

		purchase := models.Purchase{
			PurchaseID: uuid.NewString(),
			BuyerID:    buyerID,
			ContentID:  contentID,
			Amount:     content.Price,
			Status:     models.PurchasePending,
			OnCredit:   true,
		}
		// The credit charge already succeeded, so the purchase completes
		// within the same transaction
		if err := purchase.Transition(models.PurchaseCompleted); err != nil {
			return err
		}
		if err := tx.Create(&purchase).Error; err != nil {
			// Unique index violation from a concurrent insert
			var recheck int64
			tx.Model(&models.Purchase{}).
				Where("buyer_id = ? AND content_id = ?", buyerID, contentID).
				Count(&recheck)
			if recheck > 0 {
				return ErrAlreadyPurchased
			}
			return fmt.Errorf("failed to create purchase: %w", err)
		}

		earning := models.Earning{
			EarningID:  uuid.NewString(),
			CreatorID:  content.CreatorID,
			ContentID:  contentID,
			PurchaseID: purchase.PurchaseID,
			Amount:     content.Price,
			Status:     models.EarningPending,
		}
		if err := tx.Create(&earning).Error; err != nil {
			return fmt.Errorf("failed to create earning: %w", err)
		}

		// Best-effort sales counter, never fails the purchase
		if err := tx.Model(&models.Content{}).Where("content_id = ?", contentID).
			UpdateColumn("sales_count", gorm.Expr("sales_count + 1")).Error; err != nil {
			logging.Warnf("Failed to increment sales count for content %s: %v", contentID, err)
		}

		result.Purchase = &purchase
		result.CreditBalance = credit.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Infof("Purchase completed - buyer: %s, content: %s, amount: %s",
		buyerID, contentID, result.Purchase.Amount.String())
	return &result, nil
}

// ListUnsettled returns the buyer's credit purchases not yet settled,
// oldest first
func (s *PurchaseService) ListUnsettled(buyerID string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.db.Where("buyer_id = ? AND on_credit = ?", buyerID, true).
		Order("created_at ASC, id ASC").
		Find(&purchases).Error
	return purchases, err
}

// OutstandingTotal sums the buyer's unsettled credit purchases
func (s *PurchaseService) OutstandingTotal(buyerID string) (decimal.Decimal, error) {
	purchases, err := s.ListUnsettled(buyerID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(p.Amount)
	}
	return total, nil
}
