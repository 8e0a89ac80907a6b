package bazaartest

import (
	"github.com/iov-one/bazaar"
	"github.com/tendermint/tendermint/libs/common"
)

// WriteHandler will write the given key/value pair to the KVStore,
// and return the error (use nil for success)
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ bazaar.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	db.Set(h.Key, h.Value)
	return &bazaar.CheckResult{}, h.Err
}

func (h WriteHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	db.Set(h.Key, h.Value)
	return &bazaar.DeliverResult{}, h.Err
}

// WriteDecorator will write the given key/value pair to the KVStore,
// either before or after calling down the stack.
// Returns (res, err) from the child handler untouched.
type WriteDecorator struct {
	Key   []byte
	Value []byte
	After bool
}

var _ bazaar.Decorator = WriteDecorator{}

func (d WriteDecorator) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Checker) (*bazaar.CheckResult, error) {
	if !d.After {
		db.Set(d.Key, d.Value)
	}
	res, err := next.Check(ctx, db, tx)
	if d.After {
		db.Set(d.Key, d.Value)
	}
	return res, err
}

func (d WriteDecorator) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Deliverer) (*bazaar.DeliverResult, error) {
	if !d.After {
		db.Set(d.Key, d.Value)
	}
	res, err := next.Deliver(ctx, db, tx)
	if d.After {
		db.Set(d.Key, d.Value)
	}
	return res, err
}

// TagHandler writes a tag to DeliverResult and returns the given error.
// It returns the error, but doesn't write any tags on CheckTx.
type TagHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ bazaar.Handler = TagHandler{}

func (h TagHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	return &bazaar.CheckResult{}, h.Err
}

func (h TagHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	tags := []common.KVPair{{Key: h.Key, Value: h.Value}}
	return &bazaar.DeliverResult{Tags: tags}, h.Err
}
