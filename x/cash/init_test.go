package cash

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/store"
)

func TestGenesisAccounts(t *testing.T) {
	addr := bazaartest.RandomAddr(t)

	genesis := fmt.Sprintf(`{
		"cash": [
			{
				"address": "%s",
				"coins": [
					{"whole": 50, "ticker": "ETH"},
					{"whole": 1, "fractional": 250000000, "ticker": "BTC"}
				]
			}
		]
	}`, addr)

	var opts bazaar.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}

	db := store.MemStore()
	if err := (Initializer{}).FromGenesis(opts, db); err != nil {
		t.Fatalf("cannot initialize from genesis: %+v", err)
	}

	wallet, err := NewBucket().Get(db, addr)
	if err != nil {
		t.Fatalf("cannot load wallet: %+v", err)
	}
	if wallet == nil {
		t.Fatal("wallet was not created")
	}
	want := mustCombine(t,
		coin.NewCoin(1, 250000000, "BTC"),
		coin.NewCoin(50, 0, "ETH"),
	)
	if !wallet.Coins().Equals(want) {
		t.Fatalf("unexpected balance: %v", wallet.Coins())
	}
}

func TestGenesisRejectsBadAddress(t *testing.T) {
	genesis := `{"cash": [{"address": "hex:00aa", "coins": []}]}`

	var opts bazaar.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}
	if err := (Initializer{}).FromGenesis(opts, store.MemStore()); err == nil {
		t.Fatal("a short address must be rejected")
	}
}
