package ledger

import "errors"

var (
	// ErrInsufficientBalance is returned when the source account lacks the
	// internal units backing the requested visible amount.
	ErrInsufficientBalance = errors.New("ledger: transfer amount exceeds balance")

	// ErrInsufficientAllowance is returned when a TransferFrom would
	// decrement the allowance below zero.
	ErrInsufficientAllowance = errors.New("ledger: transfer amount exceeds allowance")

	// ErrInvalidAmount is returned for nil or negative amounts. Scaled
	// arithmetic is never attempted on such inputs.
	ErrInvalidAmount = errors.New("ledger: amount must be a non-negative integer")

	// ErrNotStakingContract is returned when anyone but the configured
	// staking coordinator invokes Rebase.
	ErrNotStakingContract = errors.New("ledger: caller is not the staking contract")

	// ErrIndexAlreadySet is returned when SetIndex is called after the
	// one-time genesis index assignment.
	ErrIndexAlreadySet = errors.New("ledger: index is already set")

	// ErrIndexNotSet is returned by index-dependent operations before the
	// genesis index assignment.
	ErrIndexNotSet = errors.New("ledger: index is not set")
)
