package services

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSummarizeGroupsByStatus(t *testing.T) {
	db := setupTestDB(t)
	creator := seedAccount(t, db, "")

	base := time.Now().Add(-time.Hour)
	seedPendingEarning(t, db, creator.AccountID, "10", base)
	seedPendingEarning(t, db, creator.AccountID, "25", base.Add(time.Minute))
	claimed := seedPendingEarning(t, db, creator.AccountID, "40", base.Add(2*time.Minute))
	require.NoError(t, claimed.MarkClaimed(validTxRef(0x41), time.Now()))
	require.NoError(t, db.Save(claimed).Error)

	summary, err := NewEarningService().Summarize(creator.AccountID)
	require.NoError(t, err)
	require.True(t, summary.Pending.Amount.Equal(decimal.NewFromInt(35)))
	require.Equal(t, 2, summary.Pending.Count)
	require.True(t, summary.Claimed.Amount.Equal(decimal.NewFromInt(40)))
	require.Equal(t, 1, summary.Claimed.Count)
}

func TestListPendingIsOldestFirst(t *testing.T) {
	db := setupTestDB(t)
	creator := seedAccount(t, db, "")

	base := time.Now().Add(-time.Hour)
	// Inserted out of order on purpose
	middle := seedPendingEarning(t, db, creator.AccountID, "2", base.Add(time.Minute))
	newest := seedPendingEarning(t, db, creator.AccountID, "3", base.Add(2*time.Minute))
	oldest := seedPendingEarning(t, db, creator.AccountID, "1", base)

	pending, err := NewEarningService().ListPending(creator.AccountID)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	require.Equal(t, oldest.EarningID, pending[0].EarningID)
	require.Equal(t, middle.EarningID, pending[1].EarningID)
	require.Equal(t, newest.EarningID, pending[2].EarningID)
}

func TestSummarizeIgnoresOtherCreators(t *testing.T) {
	db := setupTestDB(t)
	creator := seedAccount(t, db, "")
	other := seedAccount(t, db, "")

	seedPendingEarning(t, db, creator.AccountID, "10", time.Now())
	seedPendingEarning(t, db, other.AccountID, "99", time.Now())

	summary, err := NewEarningService().Summarize(creator.AccountID)
	require.NoError(t, err)
	require.True(t, summary.Pending.Amount.Equal(decimal.NewFromInt(10)))
	require.Equal(t, 1, summary.Pending.Count)
}

func TestAccountLockerSerializesPerAccount(t *testing.T) {
	locker := NewAccountLocker()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locker.Lock("acct-1")
			defer locker.Unlock("acct-1")
			counter++
		}()
	}
	wg.Wait()
	require.Equal(t, 50, counter)
}

func TestAccountLockerIndependentAccounts(t *testing.T) {
	locker := NewAccountLocker()

	locker.Lock("acct-1")
	done := make(chan struct{})
	go func() {
		// A different account must not block
		locker.Lock("acct-2")
		locker.Unlock("acct-2")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different account blocked")
	}
	locker.Unlock("acct-1")
}
