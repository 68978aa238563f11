package models

import (
	"github.com/shopspring/decimal"
)

// CreditAccount tracks a buyer's spend-on-credit balance.
// Created lazily with Balance = the configured allowance; Balance always stays
// in [0, allowance]. Never deleted.
type CreditAccount struct {
	BaseModel
	OwnerID string          `json:"owner_id" gorm:"uniqueIndex;not null;size:36"`
	Balance decimal.Decimal `json:"balance" gorm:"type:decimal(20,8);not null"`
}

// SettlementReference records an external payment reference already applied to
// an owner's credit account. The composite unique index is the replay guard:
// a duplicate settlement fails at insert time even across processes.
type SettlementReference struct {
	BaseModel
	OwnerID   string `json:"owner_id" gorm:"not null;size:36;index:ux_settlement_refs_owner_ref,unique"`
	Reference string `json:"reference" gorm:"not null;size:100;index:ux_settlement_refs_owner_ref,unique"`
}
