// Package vesting implements the core vesting policy engine: a deterministic
// escrow that releases a fixed quantity of a fungible asset to a designated
// recipient over time, with an administrator able to pause release and, after
// a cooling-off period, reclaim whatever has not yet been released.
//
// The engine owns no transport, no authentication and no asset custody. It is
// parameterised over an abstract Amount (a non-negative 256-bit integer) and
// Time (a monotonic Unix-second instant) and consumes a narrow Store
// interface, so the same logic runs atop any key-addressed backing store.
package vesting

import "github.com/holiman/uint256"

// Amount is a non-negative integer wide enough to avoid overflow for any
// realistic total supply. It mirrors the original contract's U512 domain.
type Amount = uint256.Int

// Time is a monotonic, non-negative instant expressed in whatever unit the
// host clock uses (conventionally Unix seconds). The engine never inspects
// Time beyond comparison and subtraction.
type Time = int64

// Field names under which the engine persists its state. These are part of
// the stable observability surface described in spec §6.3 and must not be
// renamed without a breaking-change notice to any host reading them directly.
const (
	KeyCliffTimestamp       = "cliff_timestamp"
	KeyCliffAmount          = "cliff_amount"
	KeyDripDuration         = "drip_duration"
	KeyDripAmount           = "drip_amount"
	KeyTotalAmount          = "total_amount"
	KeyAdminReleaseDuration = "admin_release_duration"
	KeyReleasedAmount       = "released_amount"
	KeyIsPaused             = "is_paused"
	KeyLastPauseTimestamp   = "last_pause_timestamp"
	KeyOnPauseDuration      = "on_pause_duration"
)

// AmountFromUint64 is a convenience constructor for callers building Amount
// literals (tests, CLI flag parsing) without reaching into uint256 directly.
func AmountFromUint64(v uint64) Amount {
	var a Amount
	a.SetUint64(v)
	return a
}
