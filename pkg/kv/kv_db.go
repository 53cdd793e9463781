package kv

import (
	"errors"
	"strings"
	"sync"

	"lintang/tspanneal/pkg/server"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"
)

const (
	runKeyPrefix = "run:"
	// first key past every "run:" key (';' follows ':')
	runKeyUpperBound = "run;"
)

// KVDB is safe to close while other goroutines still use it, calls made
// after Close fail with ErrIO.
type KVDB struct {
	mu     sync.RWMutex
	db     *pebble.DB
	closed bool
}

func NewKVDB(db *pebble.DB) *KVDB {
	return &KVDB{db: db}
}

var errStoreClosed = errors.New("run store closed")

// Open opens (or creates) the pebble store under dir.
func Open(dir string) (*KVDB, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrIO, "open run store %s", dir)
	}
	return NewKVDB(db), nil
}

func NewRunID() string {
	return uuid.NewString()
}

func runKey(id string) []byte {
	return []byte(runKeyPrefix + id)
}

// SaveRun stores the record under its ID, assigning a fresh one when empty,
// and returns the ID used.
func (k *KVDB) SaveRun(rec RunRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = NewRunID()
	}
	val, err := CompressRun(rec)
	if err != nil {
		return "", server.WrapErrorf(err, server.ErrInternalServerError, "encode run %s", rec.ID)
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return "", server.WrapErrorf(errStoreClosed, server.ErrIO, "save run %s", rec.ID)
	}
	if err := k.db.Set(runKey(rec.ID), val, pebble.Sync); err != nil {
		return "", server.WrapErrorf(err, server.ErrIO, "save run %s", rec.ID)
	}
	return rec.ID, nil
}

func (k *KVDB) GetRun(id string) (RunRecord, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return RunRecord{}, server.WrapErrorf(errStoreClosed, server.ErrIO, "load run %s", id)
	}
	val, closer, err := k.db.Get(runKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return RunRecord{}, server.WrapErrorf(err, server.ErrNotFound, "run %s not found", id)
	}
	if err != nil {
		return RunRecord{}, server.WrapErrorf(err, server.ErrIO, "load run %s", id)
	}
	defer closer.Close()

	rec, err := LoadRun(val)
	if err != nil {
		return RunRecord{}, server.WrapErrorf(err, server.ErrInternalServerError, "decode run %s", id)
	}
	return rec, nil
}

// ListRunIDs returns every stored run ID in key order.
func (k *KVDB) ListRunIDs() ([]string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return nil, server.WrapErrorf(errStoreClosed, server.ErrIO, "list runs")
	}
	iter, err := k.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(runKeyPrefix),
		UpperBound: []byte(runKeyUpperBound),
	})
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrIO, "list runs")
	}
	defer iter.Close()

	ids := []string{}
	for iter.First(); iter.Valid(); iter.Next() {
		ids = append(ids, strings.TrimPrefix(string(iter.Key()), runKeyPrefix))
	}
	return ids, iter.Error()
}

// Close waits for in-flight calls and closes pebble. Later calls are no-ops.
func (k *KVDB) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return nil
	}
	k.closed = true
	return k.db.Close()
}
