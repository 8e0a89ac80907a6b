//nolint
package store

import "github.com/iov-one/bazaar"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = bazaar.ReadOnlyKVStore
type KVStore = bazaar.KVStore
type SetDeleter = bazaar.SetDeleter
type Iterator = bazaar.Iterator
type CacheableKVStore = bazaar.CacheableKVStore
type KVCacheWrap = bazaar.KVCacheWrap
type CommitKVStore = bazaar.CommitKVStore
type CommitID = bazaar.CommitID
type Model = bazaar.Model

// Batch is an alias to interface in root package
type Batch = bazaar.Batch
