package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemCommitStore(t *testing.T) {
	s := NewMemCommitStore()
	assert.NoError(t, s.LoadLatestVersion())
	assert.Equal(t, int64(0), s.LatestVersion().Version)

	// uncommitted writes are not visible before Write
	cache := s.CacheWrap()
	cache.Set([]byte("ticker"), []byte("IOV"))
	assert.Nil(t, s.Get([]byte("ticker")))
	cache.Write()
	assert.Equal(t, []byte("IOV"), s.Get([]byte("ticker")))

	id := s.Commit()
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)
	assert.Equal(t, id, s.LatestVersion())

	// a discarded cache leaves no marks on the state hash
	c2 := s.CacheWrap()
	c2.Set([]byte("trash"), []byte("data"))
	c2.Discard()
	id2 := s.Commit()
	assert.Equal(t, int64(2), id2.Version)
	assert.Equal(t, id.Hash, id2.Hash)

	// a real change must move the hash
	c3 := s.CacheWrap()
	c3.Set([]byte("owner"), []byte("alice"))
	c3.Write()
	id3 := s.Commit()
	assert.NotEqual(t, id2.Hash, id3.Hash)
}

func TestMemCommitStoreDeterministicHash(t *testing.T) {
	build := func(order [][2]string) []byte {
		s := NewMemCommitStore()
		cache := s.CacheWrap()
		for _, kv := range order {
			cache.Set([]byte(kv[0]), []byte(kv[1]))
		}
		cache.Write()
		return s.Commit().Hash
	}

	a := build([][2]string{{"a", "1"}, {"b", "2"}, {"c", "3"}})
	b := build([][2]string{{"c", "3"}, {"a", "1"}, {"b", "2"}})
	assert.Equal(t, a, b)
}
