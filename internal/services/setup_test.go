package services

import (
	"fmt"
	"testing"
	"time"

	"marketplace-api/internal/config"
	"marketplace-api/internal/database"
	"marketplace-api/internal/models"
	"marketplace-api/pkg/logging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// setupTestDB wires a per-test in-memory database into the database package
// to avoid cross-test interference
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	require.NoError(t, config.InitConfig())
	config.AppConfig.CreditAllowance = "100"
	config.AppConfig.CreditResetPolicy = config.ResetPolicyFull
	config.AppConfig.ClaimCooldownSeconds = 0
	logging.InitLogging()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	database.SetDB(db)
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, payoutAddress string) *models.Account {
	t.Helper()
	account := &models.Account{
		AccountID:     uuid.NewString(),
		WalletAddress: "0x" + uuid.NewString()[:8] + "00000000000000000000000000000000",
		PayoutAddress: payoutAddress,
		TotalEarnings: decimal.Zero,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func seedContent(t *testing.T, db *gorm.DB, creatorID, price string) *models.Content {
	t.Helper()
	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	content := &models.Content{
		ContentID: uuid.NewString(),
		CreatorID: creatorID,
		Title:     "test content",
		Price:     p,
		IsActive:  true,
	}
	require.NoError(t, db.Create(content).Error)
	return content
}

func seedPendingEarning(t *testing.T, db *gorm.DB, creatorID, amount string, createdAt time.Time) *models.Earning {
	t.Helper()
	a, err := decimal.NewFromString(amount)
	require.NoError(t, err)
	earning := &models.Earning{
		EarningID:  uuid.NewString(),
		CreatorID:  creatorID,
		ContentID:  uuid.NewString(),
		PurchaseID: uuid.NewString(),
		Amount:     a,
		Status:     models.EarningPending,
	}
	earning.CreatedAt = createdAt
	require.NoError(t, db.Create(earning).Error)
	return earning
}

// validTxRef is a well-formed external transaction reference for tests
func validTxRef(seed byte) string {
	ref := "0x"
	for i := 0; i < 32; i++ {
		ref += fmt.Sprintf("%02x", seed)
	}
	return ref
}
