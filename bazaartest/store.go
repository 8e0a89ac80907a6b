package bazaartest

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/store"
)

// CommitKVStore returns a commit store instance backed by memory.
// Use it when a test needs the commit and version semantics of the
// production store rather than a plain cache wrap.
func CommitKVStore() bazaar.CommitKVStore {
	return store.NewMemCommitStore()
}
