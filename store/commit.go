package store

import (
	"crypto/sha256"
	"encoding/binary"
)

// MemCommitStore is a commit store backed purely by memory.
// It fulfills the CommitKVStore contract with a deterministic
// state hash, but nothing survives a process restart. Useful
// for tests and for nodes that replay state from the chain.
type MemCommitStore struct {
	kv      CacheableKVStore
	version int64
	hash    []byte
}

var _ CommitKVStore = (*MemCommitStore)(nil)

// NewMemCommitStore creates an empty store at version 0
func NewMemCommitStore() *MemCommitStore {
	return &MemCommitStore{
		kv: MemStore(),
	}
}

// Get returns the value at the last committed state
func (s *MemCommitStore) Get(key []byte) []byte {
	return s.kv.Get(key)
}

// CacheWrap returns a scratch-pad that writes back to the
// committed state on Write
func (s *MemCommitStore) CacheWrap() KVCacheWrap {
	return s.kv.CacheWrap()
}

// Commit advances the version and recomputes the state hash
func (s *MemCommitStore) Commit() CommitID {
	s.version++
	s.hash = stateHash(s.kv)
	return CommitID{Version: s.version, Hash: s.hash}
}

// LoadLatestVersion is a noop, memory always holds the latest state
func (s *MemCommitStore) LoadLatestVersion() error {
	return nil
}

// LatestVersion returns info on the last commit
func (s *MemCommitStore) LatestVersion() CommitID {
	return CommitID{Version: s.version, Hash: s.hash}
}

// stateHash hashes all key-value pairs in iteration order.
// Keys and values are length-prefixed so the encoding is
// unambiguous.
func stateHash(kv ReadOnlyKVStore) []byte {
	h := sha256.New()
	var size [8]byte

	it := kv.Iterator(nil, nil)
	defer it.Close()
	for ; it.Valid(); it.Next() {
		k, v := it.Key(), it.Value()
		binary.BigEndian.PutUint64(size[:], uint64(len(k)))
		h.Write(size[:])
		h.Write(k)
		binary.BigEndian.PutUint64(size[:], uint64(len(v)))
		h.Write(size[:])
		h.Write(v)
	}
	return h.Sum(nil)
}
