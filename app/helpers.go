package app

import (
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore,
// so buckets can reuse their key and parse logic on query results.
type ABCIStore struct {
	app abci.Application
}

var _ bazaar.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore wraps an abci application
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
func (a *ABCIStore) Get(key []byte) []byte {
	query := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	// if only the interface supported returning errors....
	if query.Code != 0 {
		panic(query.Log)
	}
	var value ResultSet
	if err := value.Unmarshal(query.Value); err != nil {
		panic(errors.Wrap(err, "unmarshal result set"))
	}
	if len(value.Results) == 0 {
		return nil
	}
	return value.Results[0]
}

// Has returns true if the given key is in the abci app store
func (a *ABCIStore) Has(key []byte) bool {
	return len(a.Get(key)) > 0
}

// Iterator attempts to do a range iteration over the store.
// Only listing the entire range is supported over abci for now.
func (a *ABCIStore) Iterator(start, end []byte) bazaar.Iterator {
	if start != nil || end != nil {
		panic("iterator only implemented for entire range")
	}

	query := a.app.Query(abci.RequestQuery{
		Path: "/?prefix",
		Data: nil,
	})
	if query.Code != 0 {
		panic(query.Log)
	}
	models, err := toModels(query.Key, query.Value)
	if err != nil {
		panic(errors.Wrap(err, "cannot convert to model"))
	}

	return newSliceIterator(models)
}

// ReverseIterator is not supported over abci
func (a *ABCIStore) ReverseIterator(start, end []byte) bazaar.Iterator {
	panic("not implemented")
}

func toModels(keys, values []byte) ([]bazaar.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}

// sliceIterator wraps an Iterator over a slice of models
type sliceIterator struct {
	data []bazaar.Model
	idx  int
}

func newSliceIterator(data []bazaar.Model) bazaar.Iterator {
	return &sliceIterator{
		data: data,
	}
}

// Valid implements Iterator and returns true iff it can be read
func (s *sliceIterator) Valid() bool {
	return s.idx < len(s.data)
}

// Next moves the iterator to the next sequential key
func (s *sliceIterator) Next() {
	s.assertValid()
	s.idx++
}

func (s *sliceIterator) assertValid() {
	if s.idx >= len(s.data) {
		panic("Passed end of slice")
	}
}

// Key returns the key of the cursor.
func (s *sliceIterator) Key() (key []byte) {
	s.assertValid()
	return s.data[s.idx].Key
}

// Value returns the value of the cursor.
func (s *sliceIterator) Value() (value []byte) {
	s.assertValid()
	return s.data[s.idx].Value
}

// Close releases the Iterator.
func (s *sliceIterator) Close() {
	s.data = nil
}
