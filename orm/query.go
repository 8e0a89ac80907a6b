package orm

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// RegisterQuery will register the root path "/" to serve queries
// on raw keys, without any bucket interpretation.
func RegisterQuery(qr bazaar.QueryRouter) {
	qr.Register("/", rawQueryHandler{})
}

type rawQueryHandler struct{}

var _ bazaar.QueryHandler = rawQueryHandler{}

// Query returns the model under exactly this key, or all models
// under the prefix, depending on the query mod.
func (h rawQueryHandler) Query(db bazaar.ReadOnlyKVStore, mod string, data []byte) ([]bazaar.Model, error) {
	switch mod {
	case bazaar.KeyQueryMod:
		value := db.Get(data)
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []bazaar.Model{{Key: data, Value: value}}, nil
	case bazaar.PrefixQueryMod:
		return queryPrefix(db, data), nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier: %q", mod)
	}
}

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr bazaar.Iterator) []bazaar.Model {
	defer itr.Close()

	res := []bazaar.Model{}
	for ; itr.Valid(); itr.Next() {
		mod := bazaar.Model{
			Key:   itr.Key(),
			Value: itr.Value(),
		}
		res = append(res, mod)
	}
	return res
}

// queryPrefix returns all models with keys under the given prefix
func queryPrefix(db bazaar.ReadOnlyKVStore, prefix []byte) []bazaar.Model {
	itr := db.Iterator(prefix, prefixRange(prefix))
	return ConsumeIterator(itr)
}

// prefixRange returns the smallest key strictly greater than all
// keys with this prefix, to use as the end of an iterator range.
// Returns nil if the prefix is empty or all 0xff.
func prefixRange(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	// all 0xff, no upper bound
	return nil
}
