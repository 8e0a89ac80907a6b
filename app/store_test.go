package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/orm"
	"github.com/iov-one/bazaar/store"
)

func newStoreApp() *StoreApp {
	qr := bazaar.NewQueryRouter()
	orm.RegisterQuery(qr)
	return NewStoreApp("bazaar", store.NewMemCommitStore(), qr, context.Background())
}

func TestStoreAppLifecycle(t *testing.T) {
	s := newStoreApp()

	if s.GetChainID() != "" {
		t.Fatalf("fresh app has a chain id: %q", s.GetChainID())
	}
	info := s.Info(abci.RequestInfo{})
	if info.LastBlockHeight != 0 {
		t.Fatalf("fresh app has a height: %d", info.LastBlockHeight)
	}

	s.WithInit(ChainInitializers())
	s.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain-1",
		AppStateBytes: []byte(`{}`),
	})
	if s.GetChainID() != "test-chain-1" {
		t.Fatalf("unexpected chain id: %q", s.GetChainID())
	}

	// the block context carries height and time
	now := time.Now().UTC()
	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 5, Time: now}})
	ctx := s.BlockContext()
	if height, _ := bazaar.GetHeight(ctx); height != 5 {
		t.Fatalf("unexpected height: %d", height)
	}
	if bt, _ := bazaar.BlockTime(ctx); !bt.Equal(now) {
		t.Fatalf("unexpected block time: %v", bt)
	}
	if bazaar.GetChainID(ctx) != "test-chain-1" {
		t.Fatalf("chain id missing from context")
	}

	// commit advances the version and the hash follows the state
	s.DeliverStore().Set([]byte("hello"), []byte("world"))
	c1 := s.Commit()
	info = s.Info(abci.RequestInfo{})
	if info.LastBlockHeight != 1 {
		t.Fatalf("unexpected height after commit: %d", info.LastBlockHeight)
	}
	if !bytes.Equal(info.LastBlockAppHash, c1.Data) {
		t.Fatal("info hash does not match the commit")
	}

	s.DeliverStore().Set([]byte("hello"), []byte("human"))
	c2 := s.Commit()
	if bytes.Equal(c1.Data, c2.Data) {
		t.Fatal("state change did not change the hash")
	}
}

func TestStoreAppQuery(t *testing.T) {
	s := newStoreApp()
	s.WithInit(ChainInitializers())
	s.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain-1",
		AppStateBytes: []byte(`{}`),
	})

	s.DeliverStore().Set([]byte("mykey"), []byte("myvalue"))

	// uncommitted writes are not visible
	res := s.Query(abci.RequestQuery{Path: "/", Data: []byte("mykey")})
	if res.Code != 0 {
		t.Fatalf("query failed: %s", res.Log)
	}
	var found ResultSet
	if err := found.Unmarshal(res.Value); err != nil {
		t.Fatalf("cannot parse result: %+v", err)
	}
	if len(found.Results) != 0 {
		t.Fatalf("uncommitted write leaked into query: %q", found.Results)
	}

	s.Commit()
	res = s.Query(abci.RequestQuery{Path: "/", Data: []byte("mykey")})
	if res.Code != 0 {
		t.Fatalf("query failed: %s", res.Log)
	}
	if err := found.Unmarshal(res.Value); err != nil {
		t.Fatalf("cannot parse result: %+v", err)
	}
	if len(found.Results) != 1 || string(found.Results[0]) != "myvalue" {
		t.Fatalf("unexpected query result: %q", found.Results)
	}

	// an unregistered path reports an error code
	res = s.Query(abci.RequestQuery{Path: "/nothing/here", Data: []byte("mykey")})
	if res.Code == 0 {
		t.Fatal("querying an unregistered path must fail")
	}
}
