package main

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"

	"vestingchain/config"
	"vestingchain/core/events"
	"vestingchain/core/state"
	"vestingchain/core/vesting"
	"vestingchain/observability"
	"vestingchain/storage"
)

// host bundles everything a subcommand needs to run one engine call and
// flush or discard it, plus record metrics and events.
type host struct {
	db    storage.Database
	store *state.VestingStore
	eng   *vesting.Engine
}

func openHost(configPath, account string) (*host, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var db storage.Database
	switch cfg.Backend {
	case "memory":
		db = storage.OpenMemDB(cfg.DataDir)
	case "leveldb", "":
		db, err = storage.NewLevelDB(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open leveldb at %s: %w", cfg.DataDir, err)
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	store := state.NewVestingStore(db, account)
	eng := vesting.NewEngine(account, store, func() vesting.Time { return time.Now().Unix() })
	eng.SetEmitter(loggingEmitter{})

	return &host{db: db, store: store, eng: eng}, nil
}

func (h *host) close() {
	_ = h.db.Close()
}

// commit flushes staged writes and records metrics on success, or discards
// them on failure — the CLI-level half of the atomicity contract described
// in spec §5 and SPEC_FULL §5.
func (h *host) commit(account, operation string, opErr error) error {
	if opErr != nil {
		h.store.Discard()
		observability.Vesting().RecordOperation(account, operation, outcomeName(opErr))
		return opErr
	}
	if err := h.store.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", operation, err)
	}
	observability.Vesting().RecordOperation(account, operation, "ok")
	h.recordGauges(account)
	return nil
}

func (h *host) recordGauges(account string) {
	paused, err := h.eng.IsPaused()
	if err == nil {
		observability.Vesting().RecordPaused(account, paused)
	}
	available, err := h.eng.AvailableAmount()
	if err == nil {
		observability.Vesting().RecordAvailable(account, available.String())
	}
}

func outcomeName(err error) string {
	switch {
	case err == nil:
		return "ok"
	default:
		return err.Error()
	}
}

// loggingEmitter prints each emitted event, standing in for whatever
// indexer/RPC forwarding a real host would wire up.
type loggingEmitter struct{}

func (loggingEmitter) Emit(evt events.Event) {
	fmt.Printf("event: %s\n", evt.EventType())
}

func parseAmount(s string) (vesting.Amount, error) {
	var a uint256.Int
	if err := a.SetFromDecimal(s); err != nil {
		return vesting.Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return a, nil
}
