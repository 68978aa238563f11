package services

import (
	"sync"
)

// AccountLocker serializes ledger mutations per account. Two concurrent
// purchases, settlements or claims against the same account take the same
// mutex, which closes the check-then-act races between reading a balance or a
// pending-earnings sum and writing the result back.
type AccountLocker struct {
	mutex sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAccountLocker creates an account locker
func NewAccountLocker() *AccountLocker {
	return &AccountLocker{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the mutex for the given account, creating it on first use.
// Locks are never removed; the map grows with the number of distinct accounts
// seen by this process, which is bounded by the account table.
func (al *AccountLocker) Lock(accountID string) {
	al.mutex.Lock()
	lock, exists := al.locks[accountID]
	if !exists {
		lock = &sync.Mutex{}
		al.locks[accountID] = lock
	}
	al.mutex.Unlock()

	lock.Lock()
}

// Unlock releases the mutex for the given account
func (al *AccountLocker) Unlock(accountID string) {
	al.mutex.Lock()
	lock, exists := al.locks[accountID]
	al.mutex.Unlock()

	if exists {
		lock.Unlock()
	}
}

// defaultLocker is shared by all workflow services in the process
var defaultLocker = NewAccountLocker()
