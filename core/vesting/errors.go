package vesting

import "errors"

// Typed, non-retryable failures the engine surfaces to callers. Every failure
// leaves engine state unchanged; see Engine's operation comments for the
// atomicity contract.
var (
	// ErrAlreadyPaused is returned by Pause when the account is already paused.
	ErrAlreadyPaused = errors.New("vesting: already paused")
	// ErrAlreadyUnpaused is returned by Unpause when the account is not paused.
	ErrAlreadyUnpaused = errors.New("vesting: already unpaused")
	// ErrNotEnoughBalance is returned by Withdraw when the requested amount
	// exceeds the currently available amount.
	ErrNotEnoughBalance = errors.New("vesting: not enough balance")
	// ErrNotPaused is returned by AdminRelease when the account is not paused.
	ErrNotPaused = errors.New("vesting: not paused")
	// ErrNotEnoughTimeElapsed is returned by AdminRelease when the continuous
	// pause has not yet lasted admin_release_duration.
	ErrNotEnoughTimeElapsed = errors.New("vesting: not enough time elapsed")
	// ErrNothingToWithdraw is returned by AdminRelease once released_amount
	// has reached total_amount.
	ErrNothingToWithdraw = errors.New("vesting: nothing to withdraw")
)
