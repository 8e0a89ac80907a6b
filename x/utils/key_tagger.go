package utils

import (
	"fmt"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/store"
	"github.com/tendermint/tendermint/libs/common"
)

// KeyTagger is a decorator that records all Set/Delete
// operations performed by its children and adds all those keys
// as DeliverTx tags
type KeyTagger struct{}

var _ bazaar.Decorator = KeyTagger{}

// NewKeyTagger creates a KeyTagger decorator
func NewKeyTagger() KeyTagger {
	return KeyTagger{}
}

// Check does nothing
func (KeyTagger) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Checker) (*bazaar.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver passes in a recording KVStore into the child and
// uses that to calculate tags to add to DeliverResult
func (KeyTagger) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Deliverer) (*bazaar.DeliverResult, error) {
	record := store.NewRecordingStore(db)
	res, err := next.Deliver(ctx, record, tx)
	if err != nil {
		return res, err
	}

	res.Tags = append(res.Tags, kvPairs(record)...)
	return res, nil
}

var (
	recordSet    = []byte("s")
	recordDelete = []byte("d")
)

// kvPairs will get the kvpairs from an underlying store if possible
// use this, so we can use interface for recordingStore
func kvPairs(db bazaar.KVStore) common.KVPairs {
	r, ok := db.(store.Recorder)
	if !ok {
		return nil
	}
	return changesToTags(r.KVPairs())
}

//----- helpers ---

// changesToTags maps recorded writes to tags. Tag keys must be
// readable strings for the tendermint indexer, so the raw store
// keys are hex encoded.
func changesToTags(changes map[string][]byte) common.KVPairs {
	l := len(changes)
	if l == 0 {
		return nil
	}
	res := make(common.KVPairs, 0, l)
	for k, v := range changes {
		tag := recordSet
		if v == nil {
			tag = recordDelete
		}
		pair := common.KVPair{
			Key:   []byte(fmt.Sprintf("%X", k)),
			Value: tag,
		}
		res = append(res, pair)
	}
	res.Sort()
	return res
}
