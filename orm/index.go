package orm

import (
	"bytes"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

const indexPrefix = "_i."

// Indexer calculates the secondary index key for a given object
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer calculates the secondary index keys for a given object
type MultiKeyIndexer func(Object) ([][]byte, error)

// Index represents a secondary index on some data.
// It is indexed by an arbitrary key returned by Indexer.
// The value is one primary key (unique),
// Or an array of primary keys (!unique).
type Index struct {
	name   string
	id     []byte
	unique bool
	index  MultiKeyIndexer
	refKey func([]byte) []byte
}

var _ bazaar.QueryHandler = Index{}
var _ Indexed = Index{}

// NewIndex constructs an index with single key Indexer.
// Indexer calculates the index for an object
// unique enforces a unique constraint on the index
// refKey calculates the absolute dbkey for a ref
func NewIndex(name string, indexer Indexer, unique bool,
	refKey func([]byte) []byte) Index {
	return NewMultiKeyIndex(name, asMultiKeyIndexer(indexer), unique, refKey)
}

// NewMultiKeyIndex constructs an index with a multi key indexer
func NewMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool,
	refKey func([]byte) []byte) Index {
	// TODO: index name must be [a-z_]
	return Index{
		name:   name,
		id:     append([]byte(indexPrefix), append([]byte(name), ':')...),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

func asMultiKeyIndexer(indexer Indexer) MultiKeyIndexer {
	return func(obj Object) ([][]byte, error) {
		key, err := indexer(obj)
		switch {
		case err != nil:
			return nil, err
		case key == nil:
			return nil, nil
		}
		return [][]byte{key}, nil
	}
}

// IndexKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (i Index) IndexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
//
// prev == nil means insert
// save == nil means delete
// both == nil is error
// if both != nil and prev.Key() != save.Key() this is an error
//
// Otherwise, it will check indexer(prev) and indexer(save)
// and make sure the key is now stored in the right location
func (i Index) Update(db bazaar.KVStore, prev Object, save Object) error {
	type s struct{ a, b bool }
	sw := s{prev == nil, save == nil}
	switch sw {
	case s{true, true}:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case s{true, false}:
		keys, err := i.index(save)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.insert(db, key, save.Key()); err != nil {
				return err
			}
		}
		return nil
	case s{false, true}:
		keys, err := i.index(prev)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.remove(db, key, prev.Key()); err != nil {
				return err
			}
		}
		return nil
	case s{false, false}:
		return i.move(db, prev, save)
	}
	return errors.Wrap(errors.ErrHuman, "you have violated the rules of boolean logic")
}

// GetAt returns a list of all pk at that index (may be empty), or an error
func (i Index) GetAt(db bazaar.ReadOnlyKVStore, index []byte) ([][]byte, error) {
	key := i.IndexKey(index)
	val := db.Get(key)
	if val == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{val}, nil
	}
	var data MultiRef
	err := data.Unmarshal(val)
	if err != nil {
		return nil, err
	}
	return data.GetRefs(), nil
}

// GetLike calculates the index for the given pattern, and
// returns a list of all pk that match (may be nil when empty), or an error
func (i Index) GetLike(db bazaar.ReadOnlyKVStore, pattern Object) ([][]byte, error) {
	indexes, err := i.index(pattern)
	if err != nil {
		return nil, err
	}
	var r [][]byte
	for _, index := range indexes {
		pks, err := i.GetAt(db, index)
		if err != nil {
			return nil, err
		}
		if i.unique {
			return pks, nil
		}
		r = append(r, pks...)
	}
	return deduplicate(r), nil
}

func deduplicate(s [][]byte) [][]byte {
	for i := 0; i < len(s); i++ {
		for j := i + 1; j < len(s); j++ {
			if bytes.Equal(s[i], s[j]) {
				s = append(s[0:j], s[j+1:]...)
			}
		}
	}
	return s
}

// Query handles queries from the QueryRouter
func (i Index) Query(db bazaar.ReadOnlyKVStore, mod string,
	data []byte) ([]bazaar.Model, error) {

	switch mod {
	case bazaar.KeyQueryMod:
		refs, err := i.GetAt(db, data)
		if err != nil {
			return nil, err
		}
		return i.loadRefs(db, refs)
	case bazaar.PrefixQueryMod:
		prefix := i.IndexKey(data)
		models := queryPrefix(db, prefix)
		var out []bazaar.Model
		for _, m := range models {
			refs, err := i.parseRefs(m.Value)
			if err != nil {
				return nil, err
			}
			loaded, err := i.loadRefs(db, refs)
			if err != nil {
				return nil, err
			}
			out = append(out, loaded...)
		}
		return out, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier: %q", mod)
	}
}

func (i Index) parseRefs(val []byte) ([][]byte, error) {
	if i.unique {
		return [][]byte{val}, nil
	}
	var data MultiRef
	if err := data.Unmarshal(val); err != nil {
		return nil, err
	}
	return data.GetRefs(), nil
}

func (i Index) loadRefs(db bazaar.ReadOnlyKVStore,
	refs [][]byte) ([]bazaar.Model, error) {

	if len(refs) == 0 {
		return nil, nil
	}
	res := make([]bazaar.Model, len(refs))
	for j, ref := range refs {
		key := i.refKey(ref)
		value := db.Get(key)
		res[j] = bazaar.Model{
			Key:   key,
			Value: value,
		}
	}
	return res, nil
}

func (i Index) move(db bazaar.KVStore, prev Object, save Object) error {
	// if the primary key is not equal, we have a problem
	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrImmutable, "cannot modify the primary key of an object")
	}

	oldKeys, err := i.index(prev)
	if err != nil {
		return err
	}
	newKeys, err := i.index(save)
	if err != nil {
		return err
	}

	// check which indexes vanished and which appeared
	for _, old := range oldKeys {
		if !containsKey(newKeys, old) {
			if err := i.remove(db, old, prev.Key()); err != nil {
				return err
			}
		}
	}
	for _, upd := range newKeys {
		if !containsKey(oldKeys, upd) {
			if err := i.insert(db, upd, save.Key()); err != nil {
				return err
			}
		}
	}
	return nil
}

func containsKey(keys [][]byte, key []byte) bool {
	for _, k := range keys {
		if bytes.Equal(k, key) {
			return true
		}
	}
	return false
}

func (i Index) remove(db bazaar.KVStore, index []byte, pk []byte) error {
	// don't deal with empty indexes
	if len(index) == 0 {
		return nil
	}
	key := i.IndexKey(index)
	cur := db.Get(key)
	if cur == nil {
		return errors.Wrap(errors.ErrNotFound, "cannot remove index entry")
	}
	if i.unique {
		// if something else was here, don't delete
		if !bytes.Equal(cur, pk) {
			return errors.Wrap(errors.ErrNotFound, "cannot remove index entry")
		}
		db.Delete(key)
		return nil
	}

	// otherwise, remove one from a list....
	var data MultiRef
	err := data.Unmarshal(cur)
	if err != nil {
		return err
	}
	err = data.Remove(pk)
	if err != nil {
		return err
	}
	// nothing left, delete this key
	if data.Size() == 0 {
		db.Delete(key)
		return nil
	}
	// other left, just update state
	save, err := data.Marshal()
	if err != nil {
		return err
	}
	db.Set(key, save)
	return nil
}

func (i Index) insert(db bazaar.KVStore, index []byte, pk []byte) error {
	// don't deal with empty indexes
	if len(index) == 0 {
		return nil
	}
	key := i.IndexKey(index)
	cur := db.Get(key)

	if i.unique {
		if cur != nil {
			return errors.Wrap(errors.ErrDuplicate, "cannot insert index entry")
		}
		db.Set(key, pk)
		return nil
	}

	// otherwise, add one to a list....
	var data MultiRef
	if cur != nil {
		err := data.Unmarshal(cur)
		if err != nil {
			return err
		}
	}
	err := data.Add(pk)
	if err != nil {
		return err
	}
	save, err := data.Marshal()
	if err != nil {
		return err
	}
	db.Set(key, save)
	return nil
}
