package services

import (
	"marketplace-api/internal/database"
	"marketplace-api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EarningService reads and reports the creator earnings queue
type EarningService struct {
	db *gorm.DB
}

// NewEarningService creates a new earning service
func NewEarningService() *EarningService {
	return &EarningService{
		db: database.GetDB(),
	}
}

// EarningsBucket is one status group in the earnings summary
type EarningsBucket struct {
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// EarningsSummary groups a creator's earnings by status
type EarningsSummary struct {
	Pending EarningsBucket `json:"pending"`
	Claimed EarningsBucket `json:"claimed"`
}

// Summarize groups the creator's earnings by status
func (s *EarningService) Summarize(creatorID string) (*EarningsSummary, error) {
	var earnings []models.Earning
	if err := s.db.Where("creator_id = ?", creatorID).Find(&earnings).Error; err != nil {
		return nil, err
	}

	summary := EarningsSummary{
		Pending: EarningsBucket{Amount: decimal.Zero},
		Claimed: EarningsBucket{Amount: decimal.Zero},
	}
	for _, e := range earnings {
		switch e.Status {
		case models.EarningClaimed:
			summary.Claimed.Amount = summary.Claimed.Amount.Add(e.Amount)
			summary.Claimed.Count++
		default:
			summary.Pending.Amount = summary.Pending.Amount.Add(e.Amount)
			summary.Pending.Count++
		}
	}
	return &summary, nil
}

// ListPending returns pending earnings oldest first. This ordering is the
// consumption order for claims.
func (s *EarningService) ListPending(creatorID string) ([]models.Earning, error) {
	return listPendingEarnings(s.db, creatorID)
}

// listPendingEarnings loads pending earnings FIFO on tx
func listPendingEarnings(tx *gorm.DB, creatorID string) ([]models.Earning, error) {
	var earnings []models.Earning
	err := tx.Where("creator_id = ? AND status = ?", creatorID, models.EarningPending).
		Order("created_at ASC, id ASC").
		Find(&earnings).Error
	return earnings, err
}

// attachSettlementRef tags earnings linked to the given purchases with the
// buyer's settlement reference. Status stays pending: settlement proves the
// buyer paid, claiming is a separate creator action.
func attachSettlementRef(tx *gorm.DB, purchaseIDs []string, reference string) error {
	if len(purchaseIDs) == 0 {
		return nil
	}
	return tx.Model(&models.Earning{}).
		Where("purchase_id IN ?", purchaseIDs).
		Update("settlement_ref", reference).Error
}
