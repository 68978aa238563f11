package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PurchaseStatus is the closed set of purchase states
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
	PurchaseRefunded  PurchaseStatus = "refunded"
)

// purchaseTransitions centralizes the legal status transitions
var purchaseTransitions = map[PurchaseStatus][]PurchaseStatus{
	PurchasePending:   {PurchaseCompleted, PurchaseFailed},
	PurchaseCompleted: {PurchaseRefunded},
	PurchaseFailed:    {},
	PurchaseRefunded:  {},
}

// Transition moves the purchase to the target status or reports why it can't
func (p *Purchase) Transition(to PurchaseStatus) error {
	for _, allowed := range purchaseTransitions[p.Status] {
		if allowed == to {
			p.Status = to
			return nil
		}
	}
	return fmt.Errorf("illegal purchase transition %s -> %s", p.Status, to)
}

// Purchase represents one (buyer, content) purchase record
// OnCredit + SettlementRef replace the prefixed payment-reference strings the
// frontend used to parse: OnCredit=true means the purchase was paid from the
// buyer's credit allowance and has not been settled yet.
type Purchase struct {
	BaseModel
	PurchaseID string          `json:"purchase_id" gorm:"uniqueIndex;not null;size:36"`
	BuyerID    string          `json:"buyer_id" gorm:"not null;size:36;index:ux_purchases_buyer_content,unique"`
	ContentID  string          `json:"content_id" gorm:"not null;size:36;index:ux_purchases_buyer_content,unique"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(20,8);not null"` // price snapshot at purchase time
	Status     PurchaseStatus  `json:"status" gorm:"not null;size:20;index"`

	OnCredit      bool    `json:"on_credit" gorm:"not null;default:true;index"`
	SettlementRef *string `json:"settlement_ref" gorm:"size:100"` // external payment reference, set once at settlement
}
