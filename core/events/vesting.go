package events

import (
	"math/big"
	"strconv"
)

// Vesting event type identifiers.
const (
	TypeVestingInitialized   = "vesting.initialized"
	TypeVestingPaused        = "vesting.paused"
	TypeVestingUnpaused      = "vesting.unpaused"
	TypeVestingWithdrawn     = "vesting.withdrawn"
	TypeVestingAdminReleased = "vesting.admin_released"
)

// Attributes renders an event's fields as a generic string map, the shape
// most indexers and log sinks expect.
type Attributes map[string]string

// VestingInitialized is emitted once, by Init.
type VestingInitialized struct {
	Account              string
	CliffTimestamp       int64
	CliffAmount          *big.Int
	DripDuration         int64
	DripAmount           *big.Int
	TotalAmount          *big.Int
	AdminReleaseDuration int64
}

func (VestingInitialized) EventType() string { return TypeVestingInitialized }

func (e VestingInitialized) Event() Attributes {
	return Attributes{
		"account":                e.Account,
		"cliff_timestamp":        formatInt(e.CliffTimestamp),
		"cliff_amount":           formatAmount(e.CliffAmount),
		"drip_duration":          formatInt(e.DripDuration),
		"drip_amount":            formatAmount(e.DripAmount),
		"total_amount":           formatAmount(e.TotalAmount),
		"admin_release_duration": formatInt(e.AdminReleaseDuration),
	}
}

// Paused is emitted by a successful Pause call.
type Paused struct {
	Account   string
	Timestamp int64
}

func (Paused) EventType() string { return TypeVestingPaused }

func (e Paused) Event() Attributes {
	return Attributes{"account": e.Account, "timestamp": formatInt(e.Timestamp)}
}

// Unpaused is emitted by a successful Unpause call.
type Unpaused struct {
	Account         string
	Timestamp       int64
	OnPauseDuration int64
}

func (Unpaused) EventType() string { return TypeVestingUnpaused }

func (e Unpaused) Event() Attributes {
	return Attributes{
		"account":           e.Account,
		"timestamp":         formatInt(e.Timestamp),
		"on_pause_duration": formatInt(e.OnPauseDuration),
	}
}

// Withdrawn is emitted by a successful Withdraw call.
type Withdrawn struct {
	Account        string
	Amount         *big.Int
	ReleasedAmount *big.Int
}

func (Withdrawn) EventType() string { return TypeVestingWithdrawn }

func (e Withdrawn) Event() Attributes {
	return Attributes{
		"account":         e.Account,
		"amount":          formatAmount(e.Amount),
		"released_amount": formatAmount(e.ReleasedAmount),
	}
}

// AdminReleased is emitted by a successful AdminRelease call.
type AdminReleased struct {
	Account string
	Amount  *big.Int
}

func (AdminReleased) EventType() string { return TypeVestingAdminReleased }

func (e AdminReleased) Event() Attributes {
	return Attributes{"account": e.Account, "amount": formatAmount(e.Amount)}
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
