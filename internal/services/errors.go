package services

import "errors"

// Sentinel errors for the ledger workflows. Handlers map these to HTTP status
// codes with errors.Is; everything else surfaces as a 500.
var (
	// Ledger errors
	ErrInsufficientCredit    = errors.New("insufficient credit balance")
	ErrCreditAccountNotFound = errors.New("credit account not found")

	// Purchase errors
	ErrAlreadyPurchased = errors.New("content already purchased")
	ErrContentNotFound  = errors.New("content not found")
	ErrContentInactive  = errors.New("content is not available for purchase")
	ErrOwnContent       = errors.New("cannot purchase your own content")

	// Settlement errors
	ErrNothingToSettle     = errors.New("no unsettled credit purchases")
	ErrInvalidReference    = errors.New("invalid transaction reference")
	ErrDuplicateSettlement = errors.New("transaction reference already settled")

	// Claim errors
	ErrNoPendingEarnings = errors.New("no pending earnings to claim")
	ErrExceedsClaimable  = errors.New("requested amount exceeds claimable earnings")
	ErrNoPayoutAddress   = errors.New("payout address not set")
	ErrPayoutFailed      = errors.New("payout transfer failed")

	// Validation errors
	ErrInvalidAmount = errors.New("amount must be greater than zero")
)
