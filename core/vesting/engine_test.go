package vesting

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// mapStore is an in-memory Store used only by tests, mirroring the mock
// state pattern this corpus's engine tests use for injected dependencies.
type mapStore struct {
	amounts map[string]Amount
	times   map[string]Time
	bools   map[string]bool
}

func newMapStore() *mapStore {
	return &mapStore{
		amounts: make(map[string]Amount),
		times:   make(map[string]Time),
		bools:   make(map[string]bool),
	}
}

func (s *mapStore) ReadAmount(name string) (Amount, error) {
	v, ok := s.amounts[name]
	if !ok {
		return Amount{}, errors.New("mapStore: amount not found: " + name)
	}
	return v, nil
}

func (s *mapStore) WriteAmount(name string, v Amount) error {
	s.amounts[name] = v
	return nil
}

func (s *mapStore) ReadTime(name string) (Time, error) {
	v, ok := s.times[name]
	if !ok {
		return 0, errors.New("mapStore: time not found: " + name)
	}
	return v, nil
}

func (s *mapStore) WriteTime(name string, v Time) error {
	s.times[name] = v
	return nil
}

func (s *mapStore) ReadBool(name string) (bool, error) {
	v, ok := s.bools[name]
	if !ok {
		return false, errors.New("mapStore: bool not found: " + name)
	}
	return v, nil
}

func (s *mapStore) WriteBool(name string, v bool) error {
	s.bools[name] = v
	return nil
}

// clockAt returns a Clock that always reports t, for tests that want a fixed
// instant.
func clockAt(t Time) Clock {
	return func() Time { return t }
}

// seedEngine builds the canonical seed-scenario configuration from spec §8:
// cliff_timestamp=10, cliff_amount=2, drip_duration=3, drip_amount=5,
// total_amount=1000, admin_release_duration=123.
func seedEngine(t *testing.T) (*Engine, *mapStore) {
	t.Helper()
	store := newMapStore()
	e := NewEngine("acct", store, clockAt(0))
	require.NoError(t, e.Init(10, AmountFromUint64(2), 3, AmountFromUint64(5), AmountFromUint64(1000), 123))
	return e, store
}

func amountEquals(t *testing.T, want uint64, got Amount) {
	t.Helper()
	require.Equal(t, AmountFromUint64(want).String(), got.String())
}

func TestInitSetsRuntimeDefaults(t *testing.T) {
	e, store := seedEngine(t)
	paused, err := e.IsPaused()
	require.NoError(t, err)
	require.False(t, paused)

	released, err := store.ReadAmount(KeyReleasedAmount)
	require.NoError(t, err)
	amountEquals(t, 0, released)

	onPause, err := store.ReadTime(KeyOnPauseDuration)
	require.NoError(t, err)
	require.Equal(t, Time(0), onPause)
}

func TestSeedScenario1_BeforeCliff(t *testing.T) {
	e, _ := seedEngine(t)
	e.SetClock(clockAt(9))

	available, err := e.AvailableAmount()
	require.NoError(t, err)
	amountEquals(t, 0, available)

	err = e.Withdraw(AmountFromUint64(1))
	require.ErrorIs(t, err, ErrNotEnoughBalance)
}

func TestSeedScenario2_AtCliff(t *testing.T) {
	e, _ := seedEngine(t)
	e.SetClock(clockAt(10))

	available, err := e.AvailableAmount()
	require.NoError(t, err)
	amountEquals(t, 2, available)

	require.NoError(t, e.Withdraw(AmountFromUint64(2)))

	available, err = e.AvailableAmount()
	require.NoError(t, err)
	amountEquals(t, 0, available)

	e.SetClock(clockAt(12))
	available, err = e.AvailableAmount()
	require.NoError(t, err)
	amountEquals(t, 0, available)
}

func TestSeedScenario3_AfterOneDrip(t *testing.T) {
	e, _ := seedEngine(t)
	e.SetClock(clockAt(10))
	require.NoError(t, e.Withdraw(AmountFromUint64(2)))

	e.SetClock(clockAt(13))
	available, err := e.AvailableAmount()
	require.NoError(t, err)
	amountEquals(t, 5, available)
}

func TestSeedScenario4_PauseShiftsSchedule(t *testing.T) {
	e, _ := seedEngine(t)
	e.SetClock(clockAt(2))
	require.NoError(t, e.Pause())
	e.SetClock(clockAt(5))
	require.NoError(t, e.Unpause())

	e.SetClock(clockAt(13))
	available, err := e.AvailableAmount()
	require.NoError(t, err)
	amountEquals(t, 2, available)
}

func TestSeedScenario5_LongWaitClamp(t *testing.T) {
	e, _ := seedEngine(t)
	e.SetClock(clockAt(613))

	available, err := e.AvailableAmount()
	require.NoError(t, err)
	amountEquals(t, 1000, available)

	require.NoError(t, e.Withdraw(AmountFromUint64(5)))
	available, err = e.AvailableAmount()
	require.NoError(t, err)
	amountEquals(t, 995, available)
}

func TestSeedScenario6_AdminReleaseAfterFullWithdrawal(t *testing.T) {
	e, _ := seedEngine(t)
	e.SetClock(clockAt(613))
	require.NoError(t, e.Withdraw(AmountFromUint64(1000)))

	e.SetClock(clockAt(700))
	require.NoError(t, e.Pause())

	e.SetClock(clockAt(700 + 123))
	_, err := e.AdminRelease()
	require.ErrorIs(t, err, ErrNothingToWithdraw)
}

func TestSeedScenario7_AdminReleaseTooSoon(t *testing.T) {
	e, _ := seedEngine(t)
	e.SetClock(clockAt(1))
	require.NoError(t, e.Pause())

	e.SetClock(clockAt(123))
	_, err := e.AdminRelease()
	require.ErrorIs(t, err, ErrNotEnoughTimeElapsed)
}

func TestSeedScenario8_AdminReleaseSuccess(t *testing.T) {
	e, store := seedEngine(t)
	e.SetClock(clockAt(0))
	require.NoError(t, e.Pause())

	e.SetClock(clockAt(123))
	amount, err := e.AdminRelease()
	require.NoError(t, err)
	amountEquals(t, 1000, amount)

	released, err := store.ReadAmount(KeyReleasedAmount)
	require.NoError(t, err)
	amountEquals(t, 1000, released)
}

func TestPauseIdempotence(t *testing.T) {
	e, _ := seedEngine(t)
	e.SetClock(clockAt(1))
	require.NoError(t, e.Pause())
	require.ErrorIs(t, e.Pause(), ErrAlreadyPaused)
}

func TestUnpauseIdempotence(t *testing.T) {
	e, _ := seedEngine(t)
	require.ErrorIs(t, e.Unpause(), ErrAlreadyUnpaused)

	e.SetClock(clockAt(1))
	require.NoError(t, e.Pause())
	require.NoError(t, e.Unpause())
	require.ErrorIs(t, e.Unpause(), ErrAlreadyUnpaused)
}

func TestPauseUnpauseSameInstantIsNoop(t *testing.T) {
	e, _ := seedEngine(t)
	e.SetClock(clockAt(50))
	before, err := e.AvailableAmount()
	require.NoError(t, err)

	require.NoError(t, e.Pause())
	require.NoError(t, e.Unpause())

	onPause, err := e.TotalPausedDuration()
	require.NoError(t, err)
	require.Equal(t, Time(0), onPause)

	paused, err := e.IsPaused()
	require.NoError(t, err)
	require.False(t, paused)

	after, err := e.AvailableAmount()
	require.NoError(t, err)
	require.Equal(t, before.String(), after.String())
}

func TestPauseUnpauseAlgebraicLaw(t *testing.T) {
	e, _ := seedEngine(t)
	e.SetClock(clockAt(1))
	require.NoError(t, e.Pause())
	e.SetClock(clockAt(4))
	require.NoError(t, e.Unpause())
	e.SetClock(clockAt(9))
	require.NoError(t, e.Pause())
	e.SetClock(clockAt(15))
	require.NoError(t, e.Unpause())

	total, err := e.TotalPausedDuration()
	require.NoError(t, err)
	require.Equal(t, Time((4-1)+(15-9)), total)
}

func TestAvailableAmountMonotonicInNow(t *testing.T) {
	e, _ := seedEngine(t)
	var prev Amount
	for _, now := range []Time{0, 5, 10, 11, 13, 16, 100, 613, 10_000} {
		e.SetClock(clockAt(now))
		cur, err := e.AvailableAmount()
		require.NoError(t, err)
		require.True(t, cur.Cmp(&prev) >= 0, "available_amount regressed at now=%d", now)
		prev = cur
	}
}

func TestWithdrawWhilePausedPermitted(t *testing.T) {
	e, _ := seedEngine(t)
	e.SetClock(clockAt(10))
	require.NoError(t, e.Pause())
	require.NoError(t, e.Withdraw(AmountFromUint64(2)))
}

func TestAdminReleaseCooldownUsesMostRecentPauseOnly(t *testing.T) {
	// Open question in spec §9: an unpause+pause cycle resets the cooldown
	// clock because it is anchored on last_pause_timestamp, which only the
	// most recent pause transition writes. This test pins that behaviour.
	e, _ := seedEngine(t)
	e.SetClock(clockAt(0))
	require.NoError(t, e.Pause())
	e.SetClock(clockAt(100))
	require.NoError(t, e.Unpause())
	e.SetClock(clockAt(101))
	require.NoError(t, e.Pause())

	e.SetClock(clockAt(101 + 122))
	_, err := e.AdminRelease()
	require.ErrorIs(t, err, ErrNotEnoughTimeElapsed)

	e.SetClock(clockAt(101 + 123))
	_, err = e.AdminRelease()
	require.NoError(t, err)
}

func TestInvariantReleasedNeverExceedsTotal(t *testing.T) {
	e, store := seedEngine(t)
	e.SetClock(clockAt(613))
	require.NoError(t, e.Withdraw(AmountFromUint64(1000)))

	total, err := store.ReadAmount(KeyTotalAmount)
	require.NoError(t, err)
	released, err := store.ReadAmount(KeyReleasedAmount)
	require.NoError(t, err)
	require.True(t, released.Cmp(&total) <= 0)

	available, err := e.AvailableAmount()
	require.NoError(t, err)
	amountEquals(t, 0, available)
}

func TestAvailableAmountNeverNegativeAfterEarlyAdminRelease(t *testing.T) {
	// admin_release can set released_amount = total_amount before the
	// schedule has fully accrued against the clock; a later query must
	// clamp to zero rather than underflow the unsigned domain.
	e, _ := seedEngine(t)
	e.SetClock(clockAt(10))
	require.NoError(t, e.Pause())
	e.SetClock(clockAt(10 + 123))
	amount, err := e.AdminRelease()
	require.NoError(t, err)
	amountEquals(t, 1000, amount)

	available, err := e.AvailableAmount()
	require.NoError(t, err)
	amountEquals(t, 0, available)
}

func TestZeroDripDurationDisablesDrips(t *testing.T) {
	store := newMapStore()
	e := NewEngine("acct", store, clockAt(0))
	require.NoError(t, e.Init(10, AmountFromUint64(2), 0, AmountFromUint64(5), AmountFromUint64(1000), 123))

	e.SetClock(clockAt(10_000))
	available, err := e.AvailableAmount()
	require.NoError(t, err)
	amountEquals(t, 2, available)
}
