package state_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vestingchain/core/state"
	"vestingchain/core/vesting"
	"vestingchain/storage"
)

func newTestDB(t *testing.T) storage.Database {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestVestingStoreRoundTripsEachFieldType(t *testing.T) {
	db := newTestDB(t)
	s := state.NewVestingStore(db, "acct-1")

	require.NoError(t, s.WriteTime(vesting.KeyCliffTimestamp, 10))
	require.NoError(t, s.WriteAmount(vesting.KeyCliffAmount, vesting.AmountFromUint64(2)))
	require.NoError(t, s.WriteTime(vesting.KeyDripDuration, 3))
	require.NoError(t, s.WriteAmount(vesting.KeyDripAmount, vesting.AmountFromUint64(5)))
	require.NoError(t, s.WriteAmount(vesting.KeyTotalAmount, vesting.AmountFromUint64(1000)))
	require.NoError(t, s.WriteTime(vesting.KeyAdminReleaseDuration, 123))
	require.NoError(t, s.WriteBool(vesting.KeyIsPaused, true))
	require.NoError(t, s.Flush())

	cliff, err := s.ReadTime(vesting.KeyCliffTimestamp)
	require.NoError(t, err)
	require.Equal(t, vesting.Time(10), cliff)

	cliffAmount, err := s.ReadAmount(vesting.KeyCliffAmount)
	require.NoError(t, err)
	require.Equal(t, vesting.AmountFromUint64(2).String(), cliffAmount.String())

	paused, err := s.ReadBool(vesting.KeyIsPaused)
	require.NoError(t, err)
	require.True(t, paused)
}

func TestVestingStoreDiscardDropsUnflushedWrites(t *testing.T) {
	db := newTestDB(t)
	s := state.NewVestingStore(db, "acct-1")
	require.NoError(t, s.WriteTime(vesting.KeyCliffTimestamp, 10))
	require.NoError(t, s.Flush())

	require.NoError(t, s.WriteTime(vesting.KeyCliffTimestamp, 999))
	s.Discard()

	cliff, err := s.ReadTime(vesting.KeyCliffTimestamp)
	require.NoError(t, err)
	require.Equal(t, vesting.Time(10), cliff, "discarded write must not be visible")
}

func TestVestingStoreNamespacesByAccount(t *testing.T) {
	db := newTestDB(t)
	a := state.NewVestingStore(db, "acct-a")
	b := state.NewVestingStore(db, "acct-b")

	require.NoError(t, a.WriteTime(vesting.KeyCliffTimestamp, 1))
	require.NoError(t, a.Flush())
	require.NoError(t, b.WriteTime(vesting.KeyCliffTimestamp, 2))
	require.NoError(t, b.Flush())

	aCliff, err := a.ReadTime(vesting.KeyCliffTimestamp)
	require.NoError(t, err)
	require.Equal(t, vesting.Time(1), aCliff)

	bCliff, err := b.ReadTime(vesting.KeyCliffTimestamp)
	require.NoError(t, err)
	require.Equal(t, vesting.Time(2), bCliff)
}

// engineOverVestingStore wires a vesting.Engine directly atop a VestingStore,
// flushing or discarding after each call the way the CLI host does, proving
// the staged-write adapter composes with the engine's atomicity contract.
func engineOverVestingStore(t *testing.T, db storage.Database, account string, clock vesting.Clock) (*vesting.Engine, *state.VestingStore) {
	t.Helper()
	store := state.NewVestingStore(db, account)
	return vesting.NewEngine(account, store, clock), store
}

func TestEngineOverVestingStoreFlushesOnSuccessAndDiscardsOnFailure(t *testing.T) {
	db := newTestDB(t)
	now := vesting.Time(0)
	clock := func() vesting.Time { return now }
	e, store := engineOverVestingStore(t, db, "acct-1", clock)

	require.NoError(t, e.Init(10, vesting.AmountFromUint64(2), 3, vesting.AmountFromUint64(5), vesting.AmountFromUint64(1000), 123))
	require.NoError(t, store.Flush())

	now = 9
	err := e.Withdraw(vesting.AmountFromUint64(1))
	require.ErrorIs(t, err, vesting.ErrNotEnoughBalance)
	store.Discard()

	now = 10
	require.NoError(t, e.Withdraw(vesting.AmountFromUint64(2)))
	require.NoError(t, store.Flush())

	released, err := store.ReadAmount(vesting.KeyReleasedAmount)
	require.NoError(t, err)
	require.Equal(t, vesting.AmountFromUint64(2).String(), released.String())
}
