package staking

import "errors"

var (
	// ErrInsufficientReserve is returned when an unstake would pay out more
	// base tokens than the coordinator holds.
	ErrInsufficientReserve = errors.New("staking: insufficient reserve")

	// ErrInsufficientFloat is returned when a stake would credit more
	// receipt units than the coordinator's unallocated receipt balance.
	ErrInsufficientFloat = errors.New("staking: deposit exceeds unallocated receipt float")

	// ErrDepositsLocked is returned when a third party stakes on behalf of
	// an account whose warmup entry has not enabled external deposits.
	ErrDepositsLocked = errors.New("staking: external deposits for account are locked")

	// ErrClaimsLocked is returned when a third party claims on behalf of an
	// account whose warmup entry has not enabled external claims.
	ErrClaimsLocked = errors.New("staking: external claims for account are locked")

	// ErrInvalidAmount is returned for nil or negative amounts.
	ErrInvalidAmount = errors.New("staking: amount must be a non-negative integer")
)
