package services

import (
	"errors"
	"fmt"
	"regexp"

	"marketplace-api/internal/database"
	"marketplace-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// walletAddressPattern matches an EVM-style address
var walletAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// AccountService manages marketplace accounts
type AccountService struct {
	db *gorm.DB
}

// NewAccountService creates a new account service
func NewAccountService() *AccountService {
	return &AccountService{
		db: database.GetDB(),
	}
}

// ValidWalletAddress reports whether the address has the expected shape
func ValidWalletAddress(address string) bool {
	return walletAddressPattern.MatchString(address)
}

// GetOrCreateByWallet returns the account for a wallet address, creating it on
// first login
func (s *AccountService) GetOrCreateByWallet(walletAddress string) (*models.Account, error) {
	if !ValidWalletAddress(walletAddress) {
		return nil, fmt.Errorf("invalid wallet address")
	}

	var account models.Account
	err := s.db.Where("wallet_address = ?", walletAddress).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	account = models.Account{
		AccountID:     uuid.NewString(),
		WalletAddress: walletAddress,
	}
	if err := s.db.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &account, nil
}

// UpdatePayoutAddress sets the creator's payout address
func (s *AccountService) UpdatePayoutAddress(accountID, payoutAddress string) error {
	if !ValidWalletAddress(payoutAddress) {
		return fmt.Errorf("invalid payout address")
	}

	result := s.db.Model(&models.Account{}).
		Where("account_id = ?", accountID).
		Update("payout_address", payoutAddress)
	if result.Error != nil {
		return fmt.Errorf("failed to update payout address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("account not found")
	}
	return nil
}

// UpdateProfile updates display name and email
func (s *AccountService) UpdateProfile(accountID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := s.db.Model(&models.Account{}).
		Where("account_id = ?", accountID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("account not found")
	}
	return nil
}
