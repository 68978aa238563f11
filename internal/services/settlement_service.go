package services

import (
	"errors"
	"regexp"

	"marketplace-api/internal/database"
	"marketplace-api/internal/models"
	"marketplace-api/pkg/logging"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// txReferencePattern matches an EVM-style transaction hash
var txReferencePattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// SettlementService converts a buyer's outstanding credit usage into a
// confirmed external payment reference
type SettlementService struct {
	db *gorm.DB
}

// NewSettlementService creates a new settlement service
func NewSettlementService() *SettlementService {
	return &SettlementService{
		db: database.GetDB(),
	}
}

// SettlementResult is returned after a successful settlement
type SettlementResult struct {
	TotalAmount          decimal.Decimal `json:"total_amount"`
	SettledPurchaseCount int             `json:"settled_purchase_count"`
	NewBalance           decimal.Decimal `json:"new_balance"`
}

// SettleCredit pays off the buyer's accumulated credit usage with an external
// payment reference. The balance reset, the purchase tagging and the earning
// tagging are one transaction; a replayed reference changes nothing.
func (s *SettlementService) SettleCredit(buyerID, reference string) (*SettlementResult, error) {
	defaultLocker.Lock(buyerID)
	defer defaultLocker.Unlock(buyerID)

	var credit models.CreditAccount
	if err := s.db.Where("owner_id = ?", buyerID).First(&credit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreditAccountNotFound
		}
		return nil, err
	}

	var unsettled []models.Purchase
	if err := s.db.Where("buyer_id = ? AND on_credit = ?", buyerID, true).
		Order("created_at ASC, id ASC").
		Find(&unsettled).Error; err != nil {
		return nil, err
	}
	if len(unsettled) == 0 {
		return nil, ErrNothingToSettle
	}

	totalAmount := decimal.Zero
	purchaseIDs := make([]string, 0, len(unsettled))
	for _, p := range unsettled {
		totalAmount = totalAmount.Add(p.Amount)
		purchaseIDs = append(purchaseIDs, p.PurchaseID)
	}

	if !txReferencePattern.MatchString(reference) {
		return nil, ErrInvalidReference
	}

	var result SettlementResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		updated, err := settleCredit(tx, buyerID, reference, totalAmount)
		if err != nil {
			return err
		}

		// Tag the settled purchases with the external reference
		if err := tx.Model(&models.Purchase{}).
			Where("purchase_id IN ?", purchaseIDs).
			Updates(map[string]interface{}{
				"on_credit":      false,
				"settlement_ref": reference,
			}).Error; err != nil {
			return err
		}

		// Earnings keep status pending; settlement only proves the buyer paid
		if err := attachSettlementRef(tx, purchaseIDs, reference); err != nil {
			return err
		}

		result = SettlementResult{
			TotalAmount:          totalAmount,
			SettledPurchaseCount: len(purchaseIDs),
			NewBalance:           updated.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Infof("Credit settled - buyer: %s, reference: %s, purchases: %d, total: %s",
		buyerID, reference, result.SettledPurchaseCount, result.TotalAmount.String())
	return &result, nil
}
