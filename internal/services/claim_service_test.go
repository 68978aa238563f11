package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"marketplace-api/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakePayout struct {
	txRef       string
	err         error
	calls       int
	lastAddress string
	lastAmount  decimal.Decimal
}

func (f *fakePayout) Transfer(address string, amount decimal.Decimal) (string, error) {
	f.calls++
	f.lastAddress = address
	f.lastAmount = amount
	if f.err != nil {
		return "", f.err
	}
	return f.txRef, nil
}

const payoutAddress = "0x00000000000000000000000000000000000000aa"

func TestClaimExactAmount(t *testing.T) {
	db := setupTestDB(t)
	creator := seedAccount(t, db, payoutAddress)
	seedPendingEarning(t, db, creator.AccountID, "30", time.Now())

	payout := &fakePayout{txRef: validTxRef(0x21)}
	result, err := NewClaimService(payout).ClaimEarnings(creator.AccountID, decimal.NewFromInt(30))
	require.NoError(t, err)
	require.True(t, result.ClaimedAmount.Equal(decimal.NewFromInt(30)))
	require.Equal(t, 1, result.ClaimedEarningsCount)
	require.True(t, result.RemainingPending.IsZero())
	require.Equal(t, payout.txRef, result.PayoutTxRef)

	require.Equal(t, 1, payout.calls)
	require.Equal(t, payoutAddress, payout.lastAddress)
	require.True(t, payout.lastAmount.Equal(decimal.NewFromInt(30)))

	var earning models.Earning
	require.NoError(t, db.Where("creator_id = ?", creator.AccountID).First(&earning).Error)
	require.Equal(t, models.EarningClaimed, earning.Status)
	require.NotNil(t, earning.ClaimedAt)
	require.NotNil(t, earning.PayoutRef)
	require.Equal(t, payout.txRef, *earning.PayoutRef)

	// Creator aggregates moved with the ledger
	var account models.Account
	require.NoError(t, db.Where("account_id = ?", creator.AccountID).First(&account).Error)
	require.True(t, account.TotalEarnings.Equal(decimal.NewFromInt(30)))
	require.Equal(t, 1, account.TotalSales)
}

func TestClaimSplitsLastEarning(t *testing.T) {
	db := setupTestDB(t)
	creator := seedAccount(t, db, payoutAddress)
	original := seedPendingEarning(t, db, creator.AccountID, "50", time.Now())

	payout := &fakePayout{txRef: validTxRef(0x22)}
	result, err := NewClaimService(payout).ClaimEarnings(creator.AccountID, decimal.NewFromInt(30))
	require.NoError(t, err)
	require.True(t, result.ClaimedAmount.Equal(decimal.NewFromInt(30)))
	require.True(t, result.RemainingPending.Equal(decimal.NewFromInt(20)))

	// The claimed part carries exactly the requested amount
	var claimed models.Earning
	require.NoError(t, db.Where("earning_id = ?", original.EarningID).First(&claimed).Error)
	require.Equal(t, models.EarningClaimed, claimed.Status)
	require.True(t, claimed.Amount.Equal(decimal.NewFromInt(30)))

	// The remainder survives pending, keeping FIFO position
	var remainder models.Earning
	require.NoError(t, db.Where("creator_id = ? AND status = ?", creator.AccountID, models.EarningPending).
		First(&remainder).Error)
	require.True(t, remainder.Amount.Equal(decimal.NewFromInt(20)))
	require.Equal(t, original.PurchaseID, remainder.PurchaseID)
	require.WithinDuration(t, original.CreatedAt, remainder.CreatedAt, time.Second)

	summary, err := NewEarningService().Summarize(creator.AccountID)
	require.NoError(t, err)
	require.True(t, summary.Pending.Amount.Equal(decimal.NewFromInt(20)))
	require.True(t, summary.Claimed.Amount.Equal(decimal.NewFromInt(30)))
}

func TestClaimConsumesOldestFirst(t *testing.T) {
	db := setupTestDB(t)
	creator := seedAccount(t, db, payoutAddress)
	base := time.Now().Add(-time.Hour)
	oldest := seedPendingEarning(t, db, creator.AccountID, "10", base)
	newer := seedPendingEarning(t, db, creator.AccountID, "20", base.Add(time.Minute))

	payout := &fakePayout{txRef: validTxRef(0x23)}
	result, err := NewClaimService(payout).ClaimEarnings(creator.AccountID, decimal.NewFromInt(15))
	require.NoError(t, err)
	require.Equal(t, 2, result.ClaimedEarningsCount)
	require.True(t, result.RemainingPending.Equal(decimal.NewFromInt(15)))

	// Oldest earning fully consumed
	var first models.Earning
	require.NoError(t, db.Where("earning_id = ?", oldest.EarningID).First(&first).Error)
	require.Equal(t, models.EarningClaimed, first.Status)
	require.True(t, first.Amount.Equal(decimal.NewFromInt(10)))

	// Newer earning split: 5 claimed, 15 still pending
	var second models.Earning
	require.NoError(t, db.Where("earning_id = ?", newer.EarningID).First(&second).Error)
	require.Equal(t, models.EarningClaimed, second.Status)
	require.True(t, second.Amount.Equal(decimal.NewFromInt(5)))

	pending, err := NewEarningService().ListPending(creator.AccountID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.True(t, pending[0].Amount.Equal(decimal.NewFromInt(15)))
}

func TestConcurrentClaimsAccumulateAggregates(t *testing.T) {
	db := setupTestDB(t)
	creator := seedAccount(t, db, payoutAddress)
	base := time.Now().Add(-time.Hour)
	seedPendingEarning(t, db, creator.AccountID, "30", base)
	seedPendingEarning(t, db, creator.AccountID, "20", base.Add(time.Minute))

	payout := &fakePayout{txRef: validTxRef(0x25)}
	svc := NewClaimService(payout)

	claimErrs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, amount := range []int64{30, 20} {
		wg.Add(1)
		go func(amount int64) {
			defer wg.Done()
			_, err := svc.ClaimEarnings(creator.AccountID, decimal.NewFromInt(amount))
			claimErrs <- err
		}(amount)
	}
	wg.Wait()
	close(claimErrs)
	for err := range claimErrs {
		require.NoError(t, err)
	}

	// Neither claim may overwrite the other's aggregate increment
	var account models.Account
	require.NoError(t, db.Where("account_id = ?", creator.AccountID).First(&account).Error)
	require.True(t, account.TotalEarnings.Equal(decimal.NewFromInt(50)),
		"total_earnings = %s, want 50", account.TotalEarnings)

	// total_sales tracks claimed ledger rows even when a claim split one
	var claimedRows int64
	require.NoError(t, db.Model(&models.Earning{}).
		Where("creator_id = ? AND status = ?", creator.AccountID, models.EarningClaimed).
		Count(&claimedRows).Error)
	require.EqualValues(t, claimedRows, account.TotalSales)

	pending, err := NewEarningService().ListPending(creator.AccountID)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestClaimRejectsOverdraw(t *testing.T) {
	db := setupTestDB(t)
	creator := seedAccount(t, db, payoutAddress)
	seedPendingEarning(t, db, creator.AccountID, "30", time.Now())

	payout := &fakePayout{txRef: validTxRef(0x24)}
	_, err := NewClaimService(payout).ClaimEarnings(creator.AccountID, decimal.NewFromInt(31))
	require.ErrorIs(t, err, ErrExceedsClaimable)
	require.Equal(t, 0, payout.calls)
}

func TestClaimPayoutFailureMutatesNothing(t *testing.T) {
	db := setupTestDB(t)
	creator := seedAccount(t, db, payoutAddress)
	seedPendingEarning(t, db, creator.AccountID, "30", time.Now())

	payout := &fakePayout{err: errors.New("rpc unavailable")}
	_, err := NewClaimService(payout).ClaimEarnings(creator.AccountID, decimal.NewFromInt(30))
	require.ErrorIs(t, err, ErrPayoutFailed)

	// No earning was touched, aggregates unchanged
	pending, listErr := NewEarningService().ListPending(creator.AccountID)
	require.NoError(t, listErr)
	require.Len(t, pending, 1)

	var account models.Account
	require.NoError(t, db.Where("account_id = ?", creator.AccountID).First(&account).Error)
	require.True(t, account.TotalEarnings.IsZero())
	require.Equal(t, 0, account.TotalSales)
}

func TestClaimRequiresPayoutAddress(t *testing.T) {
	db := setupTestDB(t)
	creator := seedAccount(t, db, "")
	seedPendingEarning(t, db, creator.AccountID, "30", time.Now())

	_, err := NewClaimService(&fakePayout{}).ClaimEarnings(creator.AccountID, decimal.NewFromInt(10))
	require.ErrorIs(t, err, ErrNoPayoutAddress)
}

func TestClaimRequiresPendingEarnings(t *testing.T) {
	db := setupTestDB(t)
	creator := seedAccount(t, db, payoutAddress)

	_, err := NewClaimService(&fakePayout{}).ClaimEarnings(creator.AccountID, decimal.NewFromInt(10))
	require.ErrorIs(t, err, ErrNoPendingEarnings)
}

func TestClaimRejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	creator := seedAccount(t, db, payoutAddress)
	seedPendingEarning(t, db, creator.AccountID, "30", time.Now())

	_, err := NewClaimService(&fakePayout{}).ClaimEarnings(creator.AccountID, decimal.Zero)
	require.ErrorIs(t, err, ErrInvalidAmount)
}
