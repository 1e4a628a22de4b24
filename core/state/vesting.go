// Package state adapts the vesting engine's narrow Store interface onto a
// generic, content-addressed key/value backend (storage.Database),
// mirroring this corpus's convention of deriving storage keys by hashing a
// semantic prefix together with the record identifier.
package state

import (
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"vestingchain/core/vesting"
	"vestingchain/storage"
)

var vestingFieldPrefix = []byte("vesting/field/")

// VestingStore implements vesting.Store over a storage.Database, namespaced
// per account so one database can host many independent vesting schedules.
//
// Writes are staged in an in-memory overlay rather than applied directly:
// the engine issues its guard reads and writes against the overlay, and the
// host must call Flush once the engine operation returns a nil error (or
// Discard if it returned an error) to get all-or-nothing semantics on top of
// a backend with no native transactions, per spec §5.
type VestingStore struct {
	db      storage.Database
	account string
	dirty   map[string][]byte
}

// NewVestingStore constructs a VestingStore for the given account over db.
func NewVestingStore(db storage.Database, account string) *VestingStore {
	return &VestingStore{db: db, account: account, dirty: make(map[string][]byte)}
}

// Flush persists every staged write to the backing database and clears the
// overlay. Call once after an engine operation returns nil.
func (s *VestingStore) Flush() error {
	for name, encoded := range s.dirty {
		if err := s.db.Put(s.fieldKey(name), encoded); err != nil {
			return fmt.Errorf("state: flush vesting field %q: %w", name, err)
		}
	}
	s.dirty = make(map[string][]byte)
	return nil
}

// Discard drops every staged write without persisting it. Call after an
// engine operation returns a typed failure so the next operation observes
// pre-call state.
func (s *VestingStore) Discard() {
	s.dirty = make(map[string][]byte)
}

func (s *VestingStore) fieldKey(name string) []byte {
	buf := make([]byte, 0, len(vestingFieldPrefix)+len(s.account)+1+len(name))
	buf = append(buf, vestingFieldPrefix...)
	buf = append(buf, s.account...)
	buf = append(buf, '/')
	buf = append(buf, name...)
	return ethcrypto.Keccak256(buf)
}

func (s *VestingStore) readRaw(name string) ([]byte, error) {
	if v, ok := s.dirty[name]; ok {
		return v, nil
	}
	return s.db.Get(s.fieldKey(name))
}

func (s *VestingStore) writeRaw(name string, v []byte) {
	s.dirty[name] = v
}

// ReadAmount implements vesting.Store.
func (s *VestingStore) ReadAmount(name string) (vesting.Amount, error) {
	raw, err := s.readRaw(name)
	if err != nil {
		return vesting.Amount{}, fmt.Errorf("state: read amount %q: %w", name, err)
	}
	var decoded big.Int
	if err := rlp.DecodeBytes(raw, &decoded); err != nil {
		return vesting.Amount{}, fmt.Errorf("state: decode amount %q: %w", name, err)
	}
	amount, overflow := uint256.FromBig(&decoded)
	if overflow {
		return vesting.Amount{}, fmt.Errorf("state: amount %q overflows 256 bits", name)
	}
	return *amount, nil
}

// WriteAmount implements vesting.Store.
func (s *VestingStore) WriteAmount(name string, v vesting.Amount) error {
	encoded, err := rlp.EncodeToBytes(v.ToBig())
	if err != nil {
		return fmt.Errorf("state: encode amount %q: %w", name, err)
	}
	s.writeRaw(name, encoded)
	return nil
}

// ReadTime implements vesting.Store.
func (s *VestingStore) ReadTime(name string) (vesting.Time, error) {
	raw, err := s.readRaw(name)
	if err != nil {
		return 0, fmt.Errorf("state: read time %q: %w", name, err)
	}
	var v uint64
	if err := rlp.DecodeBytes(raw, &v); err != nil {
		return 0, fmt.Errorf("state: decode time %q: %w", name, err)
	}
	return vesting.Time(v), nil
}

// WriteTime implements vesting.Store.
func (s *VestingStore) WriteTime(name string, v vesting.Time) error {
	if v < 0 {
		return fmt.Errorf("state: time %q must be non-negative, got %d", name, v)
	}
	encoded, err := rlp.EncodeToBytes(uint64(v))
	if err != nil {
		return fmt.Errorf("state: encode time %q: %w", name, err)
	}
	s.writeRaw(name, encoded)
	return nil
}

// ReadBool implements vesting.Store.
func (s *VestingStore) ReadBool(name string) (bool, error) {
	raw, err := s.readRaw(name)
	if err != nil {
		return false, fmt.Errorf("state: read bool %q: %w", name, err)
	}
	var v bool
	if err := rlp.DecodeBytes(raw, &v); err != nil {
		return false, fmt.Errorf("state: decode bool %q: %w", name, err)
	}
	return v, nil
}

// WriteBool implements vesting.Store.
func (s *VestingStore) WriteBool(name string, v bool) error {
	encoded, err := rlp.EncodeToBytes(v)
	if err != nil {
		return fmt.Errorf("state: encode bool %q: %w", name, err)
	}
	s.writeRaw(name, encoded)
	return nil
}
