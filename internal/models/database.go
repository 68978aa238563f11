package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BaseModel provides common fields for all database models
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// Account represents a marketplace participant (buyer and/or creator)
type Account struct {
	BaseModel
	AccountID     string `json:"account_id" gorm:"uniqueIndex;not null;size:36"`
	WalletAddress string `json:"wallet_address" gorm:"uniqueIndex;not null;size:64"`
	PayoutAddress string `json:"payout_address" gorm:"size:64"` // stablecoin address for claim payouts, empty until set
	DisplayName   string `json:"display_name" gorm:"size:100"`
	Email         string `json:"email" gorm:"size:200"` // optional, for receipt emails

	// Denormalized creator aggregates, updated inside the claim transaction
	TotalEarnings decimal.Decimal `json:"total_earnings" gorm:"type:decimal(20,8);default:0"`
	TotalSales    int             `json:"total_sales" gorm:"default:0"`
}
