// Package storage provides a generic key/value backend abstraction so the
// rest of the module can run atop either an in-memory map (tests, the CLI's
// "memory" backend) or a persistent LevelDB database.
package storage

import (
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
)

// Database is a generic key/value store. Any backend the module wires
// through core/state.VestingStore must satisfy this.
type Database interface {
	Put(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Close() error
}

// --- In-memory backend (tests, ephemeral CLI runs) ---

// MemDB is a trivial, mutex-guarded in-memory Database.
type MemDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemDB creates an empty in-memory database.
func NewMemDB() *MemDB {
	return &MemDB{data: make(map[string][]byte)}
}

var (
	memRegistryMu sync.Mutex
	memRegistry   = make(map[string]*MemDB)
)

// OpenMemDB returns the shared in-memory database registered under key,
// creating one on first use. Separate calls with the same key (e.g. a
// host's configured DataDir) observe each other's writes, the way separate
// invocations against the same persistent path would.
func OpenMemDB(key string) *MemDB {
	memRegistryMu.Lock()
	defer memRegistryMu.Unlock()
	db, ok := memRegistry[key]
	if !ok {
		db = NewMemDB()
		memRegistry[key] = db
	}
	return db
}

func (db *MemDB) Put(key, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	buf := make([]byte, len(value))
	copy(buf, value)
	db.data[string(key)] = buf
	return nil
}

func (db *MemDB) Get(key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	value, ok := db.data[string(key)]
	if !ok {
		return nil, fmt.Errorf("storage: key not found")
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (db *MemDB) Has(key []byte) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.data[string(key)]
	return ok, nil
}

// Close satisfies Database for MemDB; there is nothing to release.
func (db *MemDB) Close() error { return nil }

// --- Persistent backend ---

// LevelDB is a persistent, on-disk Database backed by goleveldb.
type LevelDB struct {
	db *leveldb.DB
}

// NewLevelDB opens (or creates) a LevelDB database at path.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Put(key, value []byte) error {
	return l.db.Put(key, value, nil)
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	return l.db.Get(key, nil)
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, nil)
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}
