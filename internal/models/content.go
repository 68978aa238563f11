package models

import (
	"github.com/shopspring/decimal"
)

// Content represents a listed content item
// The file itself lives at an external encrypted storage provider; we only keep
// the opaque storage key and the listing metadata.
type Content struct {
	BaseModel
	ContentID   string          `json:"content_id" gorm:"uniqueIndex;not null;size:36"`
	CreatorID   string          `json:"creator_id" gorm:"not null;index;size:36"`
	Title       string          `json:"title" gorm:"not null;size:200"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,8);not null"`
	StorageKey  string          `json:"storage_key" gorm:"size:200"`
	SalesCount  int             `json:"sales_count" gorm:"default:0"` // best-effort counter
	IsActive    bool            `json:"is_active" gorm:"default:true"`
}
