package app

import (
	"context"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
)

const dummyKey = "dummy"

type dummyInit struct{}

func (dummyInit) FromGenesis(opts bazaar.Options, kv bazaar.KVStore) error {
	var value string
	if err := opts.ReadOptions(dummyKey, &value); err != nil {
		return err
	}
	kv.Set([]byte(dummyKey), []byte(value))
	return nil
}

type countInit struct {
	called int
}

func (c *countInit) FromGenesis(opts bazaar.Options, kv bazaar.KVStore) error {
	c.called++
	return nil
}

func TestParseAppState(t *testing.T) {
	count := new(countInit)
	init := ChainInitializers(dummyInit{}, count)

	s := NewStoreApp("bazaar", store.NewMemCommitStore(), bazaar.NewQueryRouter(), context.Background())
	if err := s.parseAppState([]byte(`{"dummy": "secret"}`), "test-chain-67", init); err != nil {
		t.Fatalf("cannot parse app state: %+v", err)
	}

	if s.GetChainID() != "test-chain-67" {
		t.Fatalf("unexpected chain id: %q", s.GetChainID())
	}
	if count.called != 1 {
		t.Fatalf("initializer called %d times", count.called)
	}
	if val := s.DeliverStore().Get([]byte(dummyKey)); string(val) != "secret" {
		t.Fatalf("initializer did not run: %q", val)
	}

	// genesis may only run once
	err := s.parseAppState([]byte(`{}`), "another-chain", init)
	if !errors.ErrImmutable.Is(err) {
		t.Fatalf("wanted immutable error, got %+v", err)
	}
}

func TestParseAppStateRejects(t *testing.T) {
	cases := map[string]struct {
		AppState []byte
		ChainID  string
		WantErr  *errors.Error
	}{
		"empty app state": {
			AppState: nil,
			ChainID:  "test-chain-67",
			WantErr:  errors.ErrEmpty,
		},
		"invalid chain id": {
			AppState: []byte(`{}`),
			ChainID:  "no",
			WantErr:  errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			s := NewStoreApp("bazaar", store.NewMemCommitStore(), bazaar.NewQueryRouter(), context.Background())
			err := s.parseAppState(tc.AppState, tc.ChainID, ChainInitializers())
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if s.GetChainID() != "" {
				t.Fatalf("chain id was stored anyway: %q", s.GetChainID())
			}
		})
	}
}
