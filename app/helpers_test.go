package app

import (
	"testing"

	"github.com/iov-one/bazaar/bazaartest/assert"
)

func TestABCIStore(t *testing.T) {
	s := newStoreApp()
	abciApp := NewBaseApp(s, nil, nil, false)

	s.DeliverStore().Set([]byte("ape-01"), []byte("alice"))
	s.DeliverStore().Set([]byte("ape-02"), []byte("bob"))
	s.Commit()

	db := NewABCIStore(abciApp)

	if got := db.Get([]byte("ape-01")); string(got) != "alice" {
		t.Fatalf("unexpected value: %q", got)
	}
	if got := db.Get([]byte("ape-09")); got != nil {
		t.Fatalf("phantom value: %q", got)
	}
	if !db.Has([]byte("ape-02")) {
		t.Fatal("missing key")
	}
	if db.Has([]byte("ape-09")) {
		t.Fatal("phantom key")
	}

	// full range iteration lists the committed state in order
	it := db.Iterator(nil, nil)
	defer it.Close()
	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	if len(keys) != 2 || keys[0] != "ape-01" || keys[1] != "ape-02" {
		t.Fatalf("unexpected keys: %q", keys)
	}

	// partial ranges are not supported over abci
	assert.Panics(t, func() {
		db.Iterator([]byte("ape-01"), nil)
	})
}
