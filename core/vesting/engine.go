package vesting

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"vestingchain/core/events"
)

// Engine wires the vesting state machine to an injected Store and Clock. One
// Engine instance governs exactly one vesting account; hosting many accounts
// means constructing one Engine per account over a differently-scoped Store.
//
// Every mutating method returns either nil (success) or one of the sentinel
// errors in errors.go. A sentinel error leaves the underlying Store untouched:
// Engine reads all the state it needs before issuing any write, so a failed
// guard never has a partial write to undo. A Store error on a later write of
// a multi-write operation leaves the earlier writes of that operation in the
// Store; core/state.VestingStore stages writes so the host can Discard them.
type Engine struct {
	account string
	store   Store
	clock   Clock
	emitter events.Emitter
}

// NewEngine constructs an Engine bound to store and clock. account is used
// only to label emitted events; the engine performs no namespacing of its
// own. A nil clock defaults to a clock that always reports zero, which is
// only useful for tests that supply their own via SetClock.
func NewEngine(account string, store Store, clock Clock) *Engine {
	if clock == nil {
		clock = func() Time { return 0 }
	}
	return &Engine{
		account: account,
		store:   store,
		clock:   clock,
		emitter: events.NoopEmitter{},
	}
}

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetClock overrides the time source, primarily used in tests.
func (e *Engine) SetClock(clock Clock) {
	if clock == nil {
		clock = func() Time { return 0 }
	}
	e.clock = clock
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) now() Time {
	return e.clock()
}

// Init writes the six immutable policy fields and resets all runtime state.
// The engine performs no validation of policy coherence (e.g. cliff_amount
// <= total_amount); deployers are trusted, per spec §4.1.2. Callers that want
// sanity checks should validate before calling Init.
func (e *Engine) Init(cliffTimestamp Time, cliffAmount Amount, dripDuration Time, dripAmount Amount, totalAmount Amount, adminReleaseDuration Time) error {
	writes := []func() error{
		func() error { return e.store.WriteTime(KeyCliffTimestamp, cliffTimestamp) },
		func() error { return e.store.WriteAmount(KeyCliffAmount, cliffAmount) },
		func() error { return e.store.WriteTime(KeyDripDuration, dripDuration) },
		func() error { return e.store.WriteAmount(KeyDripAmount, dripAmount) },
		func() error { return e.store.WriteAmount(KeyTotalAmount, totalAmount) },
		func() error { return e.store.WriteTime(KeyAdminReleaseDuration, adminReleaseDuration) },
		func() error { return e.store.WriteAmount(KeyReleasedAmount, AmountFromUint64(0)) },
		func() error { return e.store.WriteBool(KeyIsPaused, false) },
		func() error { return e.store.WriteTime(KeyLastPauseTimestamp, 0) },
		func() error { return e.store.WriteTime(KeyOnPauseDuration, 0) },
	}
	for _, write := range writes {
		if err := write(); err != nil {
			return fmt.Errorf("vesting: init %s: %w", e.account, err)
		}
	}
	e.emit(events.VestingInitialized{
		Account:              e.account,
		CliffTimestamp:       cliffTimestamp,
		CliffAmount:          amountToBig(&cliffAmount),
		DripDuration:         dripDuration,
		DripAmount:           amountToBig(&dripAmount),
		TotalAmount:          amountToBig(&totalAmount),
		AdminReleaseDuration: adminReleaseDuration,
	})
	return nil
}

// Pause transitions the account from UNPAUSED to PAUSED, stamping the
// current instant as last_pause_timestamp. Returns ErrAlreadyPaused if the
// account is already paused.
func (e *Engine) Pause() error {
	paused, err := e.store.ReadBool(KeyIsPaused)
	if err != nil {
		return fmt.Errorf("vesting: pause %s: %w", e.account, err)
	}
	if paused {
		return ErrAlreadyPaused
	}
	now := e.now()
	if err := e.store.WriteTime(KeyLastPauseTimestamp, now); err != nil {
		return fmt.Errorf("vesting: pause %s: %w", e.account, err)
	}
	if err := e.store.WriteBool(KeyIsPaused, true); err != nil {
		return fmt.Errorf("vesting: pause %s: %w", e.account, err)
	}
	e.emit(events.Paused{Account: e.account, Timestamp: now})
	return nil
}

// Unpause transitions the account from PAUSED to UNPAUSED, folding the
// interval since last_pause_timestamp into on_pause_duration. Returns
// ErrAlreadyUnpaused if the account is not currently paused.
func (e *Engine) Unpause() error {
	paused, err := e.store.ReadBool(KeyIsPaused)
	if err != nil {
		return fmt.Errorf("vesting: unpause %s: %w", e.account, err)
	}
	if !paused {
		return ErrAlreadyUnpaused
	}
	lastPause, err := e.store.ReadTime(KeyLastPauseTimestamp)
	if err != nil {
		return fmt.Errorf("vesting: unpause %s: %w", e.account, err)
	}
	onPause, err := e.store.ReadTime(KeyOnPauseDuration)
	if err != nil {
		return fmt.Errorf("vesting: unpause %s: %w", e.account, err)
	}
	now := e.now()
	elapsed := now - lastPause
	if elapsed < 0 {
		elapsed = 0
	}
	newOnPause := onPause + elapsed
	if err := e.store.WriteTime(KeyOnPauseDuration, newOnPause); err != nil {
		return fmt.Errorf("vesting: unpause %s: %w", e.account, err)
	}
	if err := e.store.WriteBool(KeyIsPaused, false); err != nil {
		return fmt.Errorf("vesting: unpause %s: %w", e.account, err)
	}
	e.emit(events.Unpaused{Account: e.account, Timestamp: now, OnPauseDuration: newOnPause})
	return nil
}

// Withdraw releases amount of the endowment to the recipient's accrued
// entitlement. Permitted while paused: pausing freezes the schedule, not the
// recipient's already-accrued share. Returns ErrNotEnoughBalance if amount
// exceeds AvailableAmount.
func (e *Engine) Withdraw(amount Amount) error {
	available, err := e.AvailableAmount()
	if err != nil {
		return err
	}
	if available.Cmp(&amount) < 0 {
		return ErrNotEnoughBalance
	}
	released, err := e.store.ReadAmount(KeyReleasedAmount)
	if err != nil {
		return fmt.Errorf("vesting: withdraw %s: %w", e.account, err)
	}
	newReleased := new(uint256.Int).Add(&released, &amount)
	if err := e.store.WriteAmount(KeyReleasedAmount, *newReleased); err != nil {
		return fmt.Errorf("vesting: withdraw %s: %w", e.account, err)
	}
	e.emit(events.Withdrawn{Account: e.account, Amount: amountToBig(&amount), ReleasedAmount: amountToBig(newReleased)})
	return nil
}

// AdminRelease reclaims the unreleased remainder once the account has been
// continuously paused for at least admin_release_duration. Returns
// ErrNotPaused, ErrNotEnoughTimeElapsed or ErrNothingToWithdraw as described
// in spec §4.1.2.
func (e *Engine) AdminRelease() (Amount, error) {
	var zero Amount
	paused, err := e.store.ReadBool(KeyIsPaused)
	if err != nil {
		return zero, fmt.Errorf("vesting: admin_release %s: %w", e.account, err)
	}
	if !paused {
		return zero, ErrNotPaused
	}
	lastPause, err := e.store.ReadTime(KeyLastPauseTimestamp)
	if err != nil {
		return zero, fmt.Errorf("vesting: admin_release %s: %w", e.account, err)
	}
	adminReleaseDuration, err := e.store.ReadTime(KeyAdminReleaseDuration)
	if err != nil {
		return zero, fmt.Errorf("vesting: admin_release %s: %w", e.account, err)
	}
	waited := e.now() - lastPause
	if waited < adminReleaseDuration {
		return zero, ErrNotEnoughTimeElapsed
	}
	total, err := e.store.ReadAmount(KeyTotalAmount)
	if err != nil {
		return zero, fmt.Errorf("vesting: admin_release %s: %w", e.account, err)
	}
	released, err := e.store.ReadAmount(KeyReleasedAmount)
	if err != nil {
		return zero, fmt.Errorf("vesting: admin_release %s: %w", e.account, err)
	}
	if total.Cmp(&released) == 0 {
		return zero, ErrNothingToWithdraw
	}
	remainder := new(uint256.Int).Sub(&total, &released)
	if err := e.store.WriteAmount(KeyReleasedAmount, total); err != nil {
		return zero, fmt.Errorf("vesting: admin_release %s: %w", e.account, err)
	}
	e.emit(events.AdminReleased{Account: e.account, Amount: amountToBig(remainder)})
	return *remainder, nil
}

// AvailableAmount computes, at the engine's current clock reading, the
// portion of the endowment that is accrued but not yet released. It is a
// pure query: it performs no writes and is safe to call at any time,
// including while paused.
//
//	paused_now    = is_paused ? now - last_pause_timestamp : 0
//	paused_total  = on_pause_duration + paused_now
//	effective_cliff = cliff_timestamp + paused_total
//	if now < effective_cliff: return 0
//	elapsed = now - effective_cliff
//	drips   = drip_duration == 0 ? 0 : elapsed / drip_duration
//	accrued = min(cliff_amount + drip_amount * drips, total_amount)
//	return max(accrued - released_amount, 0)
func (e *Engine) AvailableAmount() (Amount, error) {
	var zero Amount
	pausedTotal, err := e.TotalPausedDuration()
	if err != nil {
		return zero, err
	}
	cliffTimestamp, err := e.store.ReadTime(KeyCliffTimestamp)
	if err != nil {
		return zero, fmt.Errorf("vesting: available_amount %s: %w", e.account, err)
	}
	effectiveCliff := cliffTimestamp + pausedTotal
	now := e.now()
	if now < effectiveCliff {
		return zero, nil
	}
	elapsed := now - effectiveCliff

	dripDuration, err := e.store.ReadTime(KeyDripDuration)
	if err != nil {
		return zero, fmt.Errorf("vesting: available_amount %s: %w", e.account, err)
	}
	var drips uint64
	if dripDuration != 0 {
		drips = uint64(elapsed / dripDuration)
	}

	cliffAmount, err := e.store.ReadAmount(KeyCliffAmount)
	if err != nil {
		return zero, fmt.Errorf("vesting: available_amount %s: %w", e.account, err)
	}
	dripAmount, err := e.store.ReadAmount(KeyDripAmount)
	if err != nil {
		return zero, fmt.Errorf("vesting: available_amount %s: %w", e.account, err)
	}
	total, err := e.store.ReadAmount(KeyTotalAmount)
	if err != nil {
		return zero, fmt.Errorf("vesting: available_amount %s: %w", e.account, err)
	}
	released, err := e.store.ReadAmount(KeyReleasedAmount)
	if err != nil {
		return zero, fmt.Errorf("vesting: available_amount %s: %w", e.account, err)
	}

	accrued := accrueClamped(&cliffAmount, &dripAmount, drips, &total)
	if accrued.Cmp(&released) <= 0 {
		return zero, nil
	}
	return *new(uint256.Int).Sub(accrued, &released), nil
}

// TotalPausedDuration returns the cumulative paused time folded into the
// effective cliff: completed pause intervals plus, if currently paused, the
// still-open interval measured against the current clock reading.
func (e *Engine) TotalPausedDuration() (Time, error) {
	onPause, err := e.store.ReadTime(KeyOnPauseDuration)
	if err != nil {
		return 0, fmt.Errorf("vesting: total_paused_duration %s: %w", e.account, err)
	}
	paused, err := e.store.ReadBool(KeyIsPaused)
	if err != nil {
		return 0, fmt.Errorf("vesting: total_paused_duration %s: %w", e.account, err)
	}
	if !paused {
		return onPause, nil
	}
	lastPause, err := e.store.ReadTime(KeyLastPauseTimestamp)
	if err != nil {
		return 0, fmt.Errorf("vesting: total_paused_duration %s: %w", e.account, err)
	}
	pausedNow := e.now() - lastPause
	if pausedNow < 0 {
		pausedNow = 0
	}
	return onPause + pausedNow, nil
}

// IsPaused reports the current value of the pause flag.
func (e *Engine) IsPaused() (bool, error) {
	paused, err := e.store.ReadBool(KeyIsPaused)
	if err != nil {
		return false, fmt.Errorf("vesting: is_paused %s: %w", e.account, err)
	}
	return paused, nil
}

// accrueClamped computes min(cliffAmount + dripAmount*drips, total) without
// ever wrapping the underlying 256-bit domain: any overflow in the product or
// sum is treated as "certainly at or past the cap" and saturates to total,
// matching the long-wait clamp described in spec §4.1.3 and §9.
func accrueClamped(cliffAmount, dripAmount *Amount, drips uint64, total *Amount) *Amount {
	dripsAmount := new(uint256.Int).SetUint64(drips)
	product, overflow := new(uint256.Int).MulOverflow(dripAmount, dripsAmount)
	if overflow {
		return new(uint256.Int).Set(total)
	}
	sum, overflow := new(uint256.Int).AddOverflow(cliffAmount, product)
	if overflow {
		return new(uint256.Int).Set(total)
	}
	if sum.Cmp(total) > 0 {
		return new(uint256.Int).Set(total)
	}
	return sum
}

func amountToBig(a *Amount) *big.Int {
	if a == nil {
		return big.NewInt(0)
	}
	return a.ToBig()
}
