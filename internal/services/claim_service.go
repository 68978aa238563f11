package services

import (
	"errors"
	"fmt"
	"time"

	"marketplace-api/internal/database"
	"marketplace-api/internal/models"
	"marketplace-api/pkg/logging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClaimService lets a creator withdraw pending earnings via the payout service
type ClaimService struct {
	db     *gorm.DB
	payout PayoutProvider
}

// NewClaimService creates a new claim service. A nil provider selects the
// configured payout client.
func NewClaimService(payout PayoutProvider) *ClaimService {
	if payout == nil {
		payout = NewPayoutClient()
	}
	return &ClaimService{
		db:     database.GetDB(),
		payout: payout,
	}
}

// ClaimResult is returned after a successful claim
type ClaimResult struct {
	ClaimedAmount        decimal.Decimal `json:"claimed_amount"`
	ClaimedEarningsCount int             `json:"claimed_earnings_count"`
	RemainingPending     decimal.Decimal `json:"remaining_pending"`
	PayoutTxRef          string          `json:"payout_tx_ref"`
}

// ClaimEarnings withdraws requested from the creator's pending earnings.
// The payout transfer happens before any earning is touched; a failed transfer
// mutates nothing. Pending earnings are consumed oldest first, and an earning
// the requested amount lands inside is split so the claimed total always
// equals the request exactly.
func (s *ClaimService) ClaimEarnings(creatorID string, requested decimal.Decimal) (*ClaimResult, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	defaultLocker.Lock(creatorID)
	defer defaultLocker.Unlock(creatorID)

	var account models.Account
	if err := s.db.Where("account_id = ?", creatorID).First(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to load creator account: %w", err)
	}
	if account.PayoutAddress == "" {
		return nil, ErrNoPayoutAddress
	}

	pending, err := listPendingEarnings(s.db, creatorID)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, ErrNoPendingEarnings
	}

	available := decimal.Zero
	for _, e := range pending {
		available = available.Add(e.Amount)
	}
	if requested.GreaterThan(available) {
		return nil, ErrExceedsClaimable
	}

	// Payout first. Nothing below runs on failure, so no earning can be
	// marked claimed without a real transfer behind it.
	txRef, err := s.payout.Transfer(account.PayoutAddress, requested)
	if err != nil {
		logging.Errorf("Payout transfer failed - creator: %s, amount: %s, error: %v",
			creatorID, requested.String(), err)
		return nil, errors.Join(ErrPayoutFailed, err)
	}

	now := time.Now()
	touched := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		remaining := requested
		for i := range pending {
			if remaining.IsZero() {
				break
			}
			earning := &pending[i]

			if remaining.LessThan(earning.Amount) {
				// Split: the unclaimed remainder survives as a new pending
				// earning keeping the original created_at, so FIFO order is
				// preserved across the split.
				leftover := models.Earning{
					EarningID:     uuid.NewString(),
					CreatorID:     earning.CreatorID,
					ContentID:     earning.ContentID,
					PurchaseID:    earning.PurchaseID,
					Amount:        earning.Amount.Sub(remaining),
					Status:        models.EarningPending,
					SettlementRef: earning.SettlementRef,
				}
				leftover.CreatedAt = earning.CreatedAt
				if err := tx.Create(&leftover).Error; err != nil {
					return fmt.Errorf("failed to split earning: %w", err)
				}
				earning.Amount = remaining
			}

			if err := earning.MarkClaimed(txRef, now); err != nil {
				return err
			}
			if err := tx.Model(&models.Earning{}).
				Where("earning_id = ?", earning.EarningID).
				Updates(map[string]interface{}{
					"amount":     earning.Amount,
					"status":     earning.Status,
					"claimed_at": earning.ClaimedAt,
					"payout_ref": earning.PayoutRef,
				}).Error; err != nil {
				return fmt.Errorf("failed to mark earning claimed: %w", err)
			}

			remaining = remaining.Sub(earning.Amount)
			touched++
		}

		// Creator aggregates move inside the same transaction so they cannot
		// drift from the earnings ledger. The increments happen in SQL so a
		// stale in-memory snapshot can never overwrite a concurrent claim.
		if err := tx.Model(&models.Account{}).
			Where("account_id = ?", creatorID).
			Updates(map[string]interface{}{
				"total_earnings": gorm.Expr("total_earnings + ?", requested),
				"total_sales":    gorm.Expr("total_sales + ?", touched),
			}).Error; err != nil {
			return fmt.Errorf("failed to update creator aggregates: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &ClaimResult{
		ClaimedAmount:        requested,
		ClaimedEarningsCount: touched,
		RemainingPending:     available.Sub(requested),
		PayoutTxRef:          txRef,
	}

	logging.Infof("Earnings claimed - creator: %s, amount: %s, earnings: %d, tx: %s",
		creatorID, requested.String(), touched, txRef)
	return result, nil
}
