package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EarningStatus is the closed set of earning states
type EarningStatus string

const (
	EarningPending EarningStatus = "pending"
	EarningClaimed EarningStatus = "claimed"
)

// Earning is one claimable entry in a creator's earnings queue, tied to a
// single purchase. Settlement of the buyer's credit attaches SettlementRef but
// leaves the earning pending; only a claim flips it to claimed.
type Earning struct {
	BaseModel
	EarningID  string          `json:"earning_id" gorm:"uniqueIndex;not null;size:36"`
	CreatorID  string          `json:"creator_id" gorm:"not null;index;size:36"`
	ContentID  string          `json:"content_id" gorm:"not null;index;size:36"`
	PurchaseID string          `json:"purchase_id" gorm:"not null;index;size:36"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(20,8);not null"`
	Status     EarningStatus   `json:"status" gorm:"not null;size:20;index"`
	ClaimedAt  *time.Time      `json:"claimed_at"`

	SettlementRef *string `json:"settlement_ref" gorm:"size:100"` // buyer's settlement tx, informational
	PayoutRef     *string `json:"payout_ref" gorm:"size:100"`     // creator's payout tx, set at claim
}

// MarkClaimed flips a pending earning to claimed with the payout reference
func (e *Earning) MarkClaimed(payoutRef string, at time.Time) error {
	if e.Status != EarningPending {
		return fmt.Errorf("earning %s is already %s", e.EarningID, e.Status)
	}
	e.Status = EarningClaimed
	e.ClaimedAt = &at
	e.PayoutRef = &payoutRef
	return nil
}
