package services

import (
	"errors"
	"fmt"

	"marketplace-api/internal/config"
	"marketplace-api/internal/database"
	"marketplace-api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditService manages buyer credit accounts
type CreditService struct {
	db *gorm.DB
}

// NewCreditService creates a new credit service
func NewCreditService() *CreditService {
	return &CreditService{
		db: database.GetDB(),
	}
}

// creditAllowance returns the configured credit allowance.
// Falls back to 100 if the configured value does not parse.
func creditAllowance() decimal.Decimal {
	allowance, err := decimal.NewFromString(config.AppConfig.CreditAllowance)
	if err != nil || allowance.LessThanOrEqual(decimal.Zero) {
		return decimal.NewFromInt(100)
	}
	return allowance
}

// GetOrCreate returns the owner's credit account, creating it with the full
// allowance on first call
func (s *CreditService) GetOrCreate(ownerID string) (*models.CreditAccount, error) {
	return getOrCreateCredit(s.db, ownerID)
}

// Charge decrements the owner's balance by amount inside one transaction.
// Callers that need the charge to be atomic with other writes (the purchase
// workflow) use chargeCredit on their own transaction instead.
func (s *CreditService) Charge(ownerID string, amount decimal.Decimal) (*models.CreditAccount, error) {
	defaultLocker.Lock(ownerID)
	defer defaultLocker.Unlock(ownerID)

	var credit *models.CreditAccount
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		credit, err = chargeCredit(tx, ownerID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return credit, nil
}

// getOrCreateCredit loads or lazily creates the credit account on tx
func getOrCreateCredit(tx *gorm.DB, ownerID string) (*models.CreditAccount, error) {
	var credit models.CreditAccount
	err := tx.Where("owner_id = ?", ownerID).First(&credit).Error
	if err == nil {
		return &credit, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	credit = models.CreditAccount{
		OwnerID: ownerID,
		Balance: creditAllowance(),
	}
	if err := tx.Create(&credit).Error; err != nil {
		return nil, fmt.Errorf("failed to create credit account: %w", err)
	}
	return &credit, nil
}

// chargeCredit decrements the balance on tx, enforcing amount in (0, balance]
func chargeCredit(tx *gorm.DB, ownerID string, amount decimal.Decimal) (*models.CreditAccount, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	credit, err := getOrCreateCredit(tx, ownerID)
	if err != nil {
		return nil, err
	}

	if amount.GreaterThan(credit.Balance) {
		return nil, ErrInsufficientCredit
	}

	credit.Balance = credit.Balance.Sub(amount)
	if err := tx.Model(credit).Update("balance", credit.Balance).Error; err != nil {
		return nil, fmt.Errorf("failed to update credit balance: %w", err)
	}
	return credit, nil
}

// settleCredit applies the configured reset policy and records the external
// reference on tx. The unique (owner, reference) index backs up the in-band
// duplicate check, so a replay loses even if two settlements race.
func settleCredit(tx *gorm.DB, ownerID, reference string, settledTotal decimal.Decimal) (*models.CreditAccount, error) {
	var credit models.CreditAccount
	if err := tx.Where("owner_id = ?", ownerID).First(&credit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreditAccountNotFound
		}
		return nil, err
	}

	var count int64
	if err := tx.Model(&models.SettlementReference{}).
		Where("owner_id = ? AND reference = ?", ownerID, reference).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateSettlement
	}

	allowance := creditAllowance()
	switch config.AppConfig.CreditResetPolicy {
	case config.ResetPolicyRefund:
		credit.Balance = credit.Balance.Add(settledTotal)
		if credit.Balance.GreaterThan(allowance) {
			credit.Balance = allowance
		}
	default:
		// Full reset: settlement always refreshes the whole allowance
		credit.Balance = allowance
	}

	if err := tx.Model(&credit).Update("balance", credit.Balance).Error; err != nil {
		return nil, fmt.Errorf("failed to reset credit balance: %w", err)
	}

	ref := models.SettlementReference{OwnerID: ownerID, Reference: reference}
	if err := tx.Create(&ref).Error; err != nil {
		return nil, ErrDuplicateSettlement
	}

	return &credit, nil
}
