package market

import (
	"context"
	"reflect"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/nft"
	"github.com/iov-one/bazaar/x/utils"
)

// fixture wires the market handlers to real nft and cash
// controllers, the same shape the application stack uses.
type fixture struct {
	auth   *bazaartest.CtxAuth
	assets nft.TokenController
	coins  cash.WalletController
	list   ListHandler
	buy    BuyHandler
}

func newFixture() fixture {
	auth := &bazaartest.CtxAuth{Key: "auth"}
	assets := nft.NewController()
	coins := cash.NewController()
	return fixture{
		auth:   auth,
		assets: assets,
		coins:  coins,
		list:   NewListHandler(auth, assets),
		buy:    NewBuyHandler(auth, assets, coins),
	}
}

func (f fixture) ctx(signers ...bazaar.Condition) bazaar.Context {
	return f.auth.SetConditions(context.Background(), signers...)
}

// dumpStore captures every key/value pair for exact state comparison
func dumpStore(t testing.TB, db bazaar.ReadOnlyKVStore) map[string]string {
	t.Helper()
	dump := make(map[string]string)
	it := db.Iterator(nil, nil)
	defer it.Close()
	for ; it.Valid(); it.Next() {
		dump[string(it.Key())] = string(it.Value())
	}
	return dump
}

func custodyAddr(t testing.TB, db bazaar.ReadOnlyKVStore) bazaar.Address {
	t.Helper()
	addr, err := CustodyAddress(db)
	if err != nil {
		t.Fatalf("cannot derive custody address: %+v", err)
	}
	return addr
}

func TestListFreshListing(t *testing.T) {
	alice := bazaar.NewCondition("sig", "ed25519", []byte{1, 2, 3})
	id := []byte("degen_ape-42")
	price := coin.NewCoin(100, 0, "IOV")

	f := newFixture()
	db := store.MemStore()
	if err := f.assets.Issue(db, id, alice.Address()); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}

	ctx := f.ctx(alice)
	tx := &bazaartest.Tx{Msg: &ListMsg{AssetId: id, Price: &price}}

	cache := db.CacheWrap()
	if _, err := f.list.Check(ctx, cache, tx); err != nil {
		t.Fatalf("check failed: %+v", err)
	}
	cache.Discard()

	res, err := f.list.Deliver(ctx, db, tx)
	if err != nil {
		t.Fatalf("cannot list: %+v", err)
	}

	// the listing and the custody holding must exist together
	listing, err := NewBucket().GetListing(db, id)
	if err != nil {
		t.Fatalf("cannot load listing: %+v", err)
	}
	if listing == nil {
		t.Fatal("no listing written")
	}
	if !alice.Address().Equals(listing.Owner) {
		t.Fatalf("unexpected listing owner: %q", listing.Owner)
	}
	if !listing.Price.Equals(price) {
		t.Fatalf("unexpected listing price: %v", listing.Price)
	}

	custody := custodyAddr(t, db)
	if has, _ := f.assets.HasUnit(db, id, custody); !has {
		t.Fatal("unit did not move into custody")
	}
	if has, _ := f.assets.HasUnit(db, id, alice.Address()); has {
		t.Fatal("owner still holds the listed unit")
	}

	if len(res.Tags) != 4 {
		t.Fatalf("unexpected tags: %v", res.Tags)
	}
	wantTags := map[string]string{
		TagAsset:       string(id),
		TagOwner:       alice.Address().String(),
		TagPrice:       price.String(),
		TagMarketplace: custody.String(),
	}
	for _, tag := range res.Tags {
		if want := wantTags[string(tag.Key)]; want != string(tag.Value) {
			t.Fatalf("unexpected %s tag: %q", tag.Key, tag.Value)
		}
	}
}

func TestRelistUpdatesPriceOnly(t *testing.T) {
	alice := bazaar.NewCondition("sig", "ed25519", []byte{1, 2, 3})
	id := []byte("degen_ape-42")
	first := coin.NewCoin(100, 0, "IOV")
	second := coin.NewCoin(150, 0, "IOV")

	f := newFixture()
	db := store.MemStore()
	if err := f.assets.Issue(db, id, alice.Address()); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}

	ctx := f.ctx(alice)
	if _, err := f.list.Deliver(ctx, db, &bazaartest.Tx{Msg: &ListMsg{AssetId: id, Price: &first}}); err != nil {
		t.Fatalf("cannot list: %+v", err)
	}
	before := dumpStore(t, db)

	if _, err := f.list.Deliver(ctx, db, &bazaartest.Tx{Msg: &ListMsg{AssetId: id, Price: &second}}); err != nil {
		t.Fatalf("cannot relist: %+v", err)
	}

	listing, err := NewBucket().GetListing(db, id)
	if err != nil {
		t.Fatalf("cannot load listing: %+v", err)
	}
	if !listing.Price.Equals(second) {
		t.Fatalf("price was not updated: %v", listing.Price)
	}

	// only the listing record may differ between the two states
	after := dumpStore(t, db)
	if len(after) != len(before) {
		t.Fatalf("relisting changed the key count: %d != %d", len(after), len(before))
	}
	var changed []string
	for key, val := range after {
		if prev, ok := before[key]; !ok || prev != val {
			changed = append(changed, key)
		}
	}
	if len(changed) != 1 {
		t.Fatalf("relisting touched more than the listing: %q", changed)
	}
}

func TestListRejections(t *testing.T) {
	var (
		alice = bazaar.NewCondition("sig", "ed25519", []byte{1, 2, 3})
		bob   = bazaar.NewCondition("sig", "ed25519", []byte{4, 5, 6})
		id    = []byte("degen_ape-42")
		price = coin.NewCoin(100, 0, "IOV")
	)

	cases := map[string]struct {
		Prepare        func(t *testing.T, f fixture, db bazaar.KVStore)
		Signers        []bazaar.Condition
		Msg            *ListMsg
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
	}{
		"unsigned listing": {
			Msg:            &ListMsg{AssetId: id, Price: &price},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"declared owner must sign": {
			Signers:        []bazaar.Condition{bob},
			Msg:            &ListMsg{AssetId: id, Owner: alice.Address(), Price: &price},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"cannot list a unit you do not hold": {
			Prepare: func(t *testing.T, f fixture, db bazaar.KVStore) {
				if err := f.assets.Issue(db, id, alice.Address()); err != nil {
					t.Fatalf("cannot issue: %+v", err)
				}
			},
			Signers:        []bazaar.Condition{bob},
			Msg:            &ListMsg{AssetId: id, Price: &price},
			WantDeliverErr: ErrOwnershipMismatch,
		},
		"cannot list an unknown asset": {
			Signers:        []bazaar.Condition{alice},
			Msg:            &ListMsg{AssetId: id, Price: &price},
			WantDeliverErr: ErrOwnershipMismatch,
		},
		"only the listing owner can update the price": {
			Prepare: func(t *testing.T, f fixture, db bazaar.KVStore) {
				if err := f.assets.Issue(db, id, alice.Address()); err != nil {
					t.Fatalf("cannot issue: %+v", err)
				}
				ctx := f.ctx(alice)
				if _, err := f.list.Deliver(ctx, db, &bazaartest.Tx{Msg: &ListMsg{AssetId: id, Price: &price}}); err != nil {
					t.Fatalf("cannot list: %+v", err)
				}
			},
			Signers:        []bazaar.Condition{bob},
			Msg:            &ListMsg{AssetId: id, Price: &price},
			WantDeliverErr: ErrOwnershipMismatch,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture()
			db := store.MemStore()
			if tc.Prepare != nil {
				tc.Prepare(t, f, db)
			}

			ctx := f.ctx(tc.Signers...)
			tx := &bazaartest.Tx{Msg: tc.Msg}

			cache := db.CacheWrap()
			if _, err := f.list.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			before := dumpStore(t, db)
			sp := utils.NewSavepoint().OnDeliver()
			if _, err := sp.Deliver(ctx, db, tx, f.list); !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if after := dumpStore(t, db); !reflect.DeepEqual(before, after) {
				t.Fatal("a rejected listing changed the state")
			}
		})
	}
}

func TestBuyHappyPath(t *testing.T) {
	var (
		alice = bazaar.NewCondition("sig", "ed25519", []byte{1, 2, 3})
		bob   = bazaar.NewCondition("sig", "ed25519", []byte{4, 5, 6})
		id    = []byte("degen_ape-42")
		price = coin.NewCoin(100, 0, "IOV")
		funds = coin.NewCoin(130, 0, "IOV")
	)

	f := newFixture()
	db := store.MemStore()
	if err := f.assets.Issue(db, id, alice.Address()); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}
	if _, err := f.list.Deliver(f.ctx(alice), db, &bazaartest.Tx{Msg: &ListMsg{AssetId: id, Price: &price}}); err != nil {
		t.Fatalf("cannot list: %+v", err)
	}
	if err := f.coins.IssueCoins(db, bob.Address(), funds); err != nil {
		t.Fatalf("cannot fund buyer: %+v", err)
	}

	ctx := f.ctx(bob)
	tx := &bazaartest.Tx{Msg: &BuyMsg{AssetId: id}}

	cache := db.CacheWrap()
	if _, err := f.buy.Check(ctx, cache, tx); err != nil {
		t.Fatalf("check failed: %+v", err)
	}
	cache.Discard()

	res, err := f.buy.Deliver(ctx, db, tx)
	if err != nil {
		t.Fatalf("cannot buy: %+v", err)
	}

	// the unit belongs to the buyer, the custody holding is gone
	if has, _ := f.assets.HasUnit(db, id, bob.Address()); !has {
		t.Fatal("buyer does not hold the unit")
	}
	if has, _ := f.assets.HasUnit(db, id, custodyAddr(t, db)); has {
		t.Fatal("unit is still in custody")
	}

	// the listing is destroyed
	listing, err := NewBucket().GetListing(db, id)
	if err != nil {
		t.Fatalf("cannot load listing: %+v", err)
	}
	if listing != nil {
		t.Fatalf("listing survived the sale: %v", listing)
	}

	// the price moved buyer to seller
	sellerCoins, err := f.coins.Balance(db, alice.Address())
	if err != nil {
		t.Fatalf("cannot load seller balance: %+v", err)
	}
	if !sellerCoins.Contains(price) {
		t.Fatalf("seller was not paid: %v", sellerCoins)
	}
	buyerCoins, err := f.coins.Balance(db, bob.Address())
	if err != nil {
		t.Fatalf("cannot load buyer balance: %+v", err)
	}
	if !buyerCoins.Contains(coin.NewCoin(30, 0, "IOV")) {
		t.Fatalf("unexpected buyer change: %v", buyerCoins)
	}
	if buyerCoins.Contains(coin.NewCoin(31, 0, "IOV")) {
		t.Fatalf("buyer kept too much: %v", buyerCoins)
	}

	if len(res.Tags) != 4 {
		t.Fatalf("unexpected tags: %v", res.Tags)
	}
	wantTags := map[string]string{
		TagAsset:       string(id),
		TagSeller:      alice.Address().String(),
		TagBuyer:       bob.Address().String(),
		TagMarketplace: custodyAddr(t, db).String(),
	}
	for _, tag := range res.Tags {
		if want := wantTags[string(tag.Key)]; want != string(tag.Value) {
			t.Fatalf("unexpected %s tag: %q", tag.Key, tag.Value)
		}
	}
}

func TestBuyZeroPrice(t *testing.T) {
	var (
		alice = bazaar.NewCondition("sig", "ed25519", []byte{1, 2, 3})
		bob   = bazaar.NewCondition("sig", "ed25519", []byte{4, 5, 6})
		id    = []byte("degen_ape-42")
		free  = coin.Coin{}
	)

	f := newFixture()
	db := store.MemStore()
	if err := f.assets.Issue(db, id, alice.Address()); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}
	if _, err := f.list.Deliver(f.ctx(alice), db, &bazaartest.Tx{Msg: &ListMsg{AssetId: id, Price: &free}}); err != nil {
		t.Fatalf("cannot list: %+v", err)
	}

	// bob has no wallet at all, a giveaway must still work
	if _, err := f.buy.Deliver(f.ctx(bob), db, &bazaartest.Tx{Msg: &BuyMsg{AssetId: id}}); err != nil {
		t.Fatalf("cannot claim free listing: %+v", err)
	}
	if has, _ := f.assets.HasUnit(db, id, bob.Address()); !has {
		t.Fatal("buyer does not hold the unit")
	}
	wallet, err := f.coins.Balance(db, bob.Address())
	if err != nil {
		t.Fatalf("cannot load buyer balance: %+v", err)
	}
	if wallet != nil {
		t.Fatalf("a zero price minted a wallet: %v", wallet)
	}
}

func TestBuyUnderfundedLeavesStateUntouched(t *testing.T) {
	var (
		alice = bazaar.NewCondition("sig", "ed25519", []byte{1, 2, 3})
		bob   = bazaar.NewCondition("sig", "ed25519", []byte{4, 5, 6})
		id    = []byte("degen_ape-42")
		price = coin.NewCoin(100, 0, "IOV")
	)

	f := newFixture()
	db := store.MemStore()
	if err := f.assets.Issue(db, id, alice.Address()); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}
	if _, err := f.list.Deliver(f.ctx(alice), db, &bazaartest.Tx{Msg: &ListMsg{AssetId: id, Price: &price}}); err != nil {
		t.Fatalf("cannot list: %+v", err)
	}
	if err := f.coins.IssueCoins(db, bob.Address(), coin.NewCoin(99, 0, "IOV")); err != nil {
		t.Fatalf("cannot fund buyer: %+v", err)
	}

	before := dumpStore(t, db)
	ctx := f.ctx(bob)
	tx := &bazaartest.Tx{Msg: &BuyMsg{AssetId: id}}

	sp := utils.NewSavepoint().OnDeliver()
	if _, err := sp.Deliver(ctx, db, tx, f.buy); !cash.ErrInsufficientFunds.Is(err) {
		t.Fatalf("wanted insufficient funds error, got %+v", err)
	}
	if after := dumpStore(t, db); !reflect.DeepEqual(before, after) {
		t.Fatal("a failed sale changed the state")
	}

	// a buyer without any wallet gets the same error
	nobody := bazaar.NewCondition("sig", "ed25519", []byte{7, 7, 7})
	if _, err := sp.Deliver(f.ctx(nobody), db, tx, f.buy); !cash.ErrInsufficientFunds.Is(err) {
		t.Fatalf("wanted insufficient funds error, got %+v", err)
	}
}

func TestBuyMissingListing(t *testing.T) {
	bob := bazaar.NewCondition("sig", "ed25519", []byte{4, 5, 6})

	f := newFixture()
	db := store.MemStore()
	if err := f.coins.IssueCoins(db, bob.Address(), coin.NewCoin(100, 0, "IOV")); err != nil {
		t.Fatalf("cannot fund buyer: %+v", err)
	}

	before := dumpStore(t, db)
	tx := &bazaartest.Tx{Msg: &BuyMsg{AssetId: []byte("never-listed")}}
	sp := utils.NewSavepoint().OnDeliver()
	if _, err := sp.Deliver(f.ctx(bob), db, tx, f.buy); !ErrListingNotFound.Is(err) {
		t.Fatalf("wanted listing not found error, got %+v", err)
	}
	if after := dumpStore(t, db); !reflect.DeepEqual(before, after) {
		t.Fatal("a failed sale changed the state")
	}
}

func TestBuySoldListingLosesTheRace(t *testing.T) {
	var (
		alice = bazaar.NewCondition("sig", "ed25519", []byte{1, 2, 3})
		bob   = bazaar.NewCondition("sig", "ed25519", []byte{4, 5, 6})
		carol = bazaar.NewCondition("sig", "ed25519", []byte{7, 8, 9})
		id    = []byte("degen_ape-42")
		price = coin.NewCoin(100, 0, "IOV")
	)

	f := newFixture()
	db := store.MemStore()
	if err := f.assets.Issue(db, id, alice.Address()); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}
	if _, err := f.list.Deliver(f.ctx(alice), db, &bazaartest.Tx{Msg: &ListMsg{AssetId: id, Price: &price}}); err != nil {
		t.Fatalf("cannot list: %+v", err)
	}
	for _, buyer := range []bazaar.Condition{bob, carol} {
		if err := f.coins.IssueCoins(db, buyer.Address(), price); err != nil {
			t.Fatalf("cannot fund buyer: %+v", err)
		}
	}

	tx := &bazaartest.Tx{Msg: &BuyMsg{AssetId: id}}
	sp := utils.NewSavepoint().OnDeliver()
	if _, err := sp.Deliver(f.ctx(bob), db, tx, f.buy); err != nil {
		t.Fatalf("first buyer cannot buy: %+v", err)
	}
	if _, err := sp.Deliver(f.ctx(carol), db, tx, f.buy); !ErrListingNotFound.Is(err) {
		t.Fatalf("wanted listing not found error, got %+v", err)
	}

	// the winner holds the unit, the loser keeps the money
	if has, _ := f.assets.HasUnit(db, id, bob.Address()); !has {
		t.Fatal("winner does not hold the unit")
	}
	loserCoins, err := f.coins.Balance(db, carol.Address())
	if err != nil {
		t.Fatalf("cannot load loser balance: %+v", err)
	}
	if !loserCoins.Contains(price) {
		t.Fatalf("loser was charged: %v", loserCoins)
	}
}

func TestBuyEscapedCustodyRollsBackPayment(t *testing.T) {
	var (
		alice = bazaar.NewCondition("sig", "ed25519", []byte{1, 2, 3})
		bob   = bazaar.NewCondition("sig", "ed25519", []byte{4, 5, 6})
		id    = []byte("degen_ape-42")
		price = coin.NewCoin(100, 0, "IOV")
	)

	f := newFixture()
	db := store.MemStore()
	if err := f.assets.Issue(db, id, alice.Address()); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}
	if _, err := f.list.Deliver(f.ctx(alice), db, &bazaartest.Tx{Msg: &ListMsg{AssetId: id, Price: &price}}); err != nil {
		t.Fatalf("cannot list: %+v", err)
	}
	if err := f.coins.IssueCoins(db, bob.Address(), price); err != nil {
		t.Fatalf("cannot fund buyer: %+v", err)
	}

	// corrupt the custody: move the unit back out underneath the listing
	if err := f.assets.Move(db, id, custodyAddr(t, db), alice.Address()); err != nil {
		t.Fatalf("cannot corrupt custody: %+v", err)
	}

	before := dumpStore(t, db)
	tx := &bazaartest.Tx{Msg: &BuyMsg{AssetId: id}}
	sp := utils.NewSavepoint().OnDeliver()
	if _, err := sp.Deliver(f.ctx(bob), db, tx, f.buy); !ErrCustodyMismatch.Is(err) {
		t.Fatalf("wanted custody mismatch error, got %+v", err)
	}

	// the payment to the seller must be rolled back with everything else
	if after := dumpStore(t, db); !reflect.DeepEqual(before, after) {
		t.Fatal("a failed sale changed the state")
	}
	buyerCoins, err := f.coins.Balance(db, bob.Address())
	if err != nil {
		t.Fatalf("cannot load buyer balance: %+v", err)
	}
	if !buyerCoins.Contains(price) {
		t.Fatalf("buyer was charged: %v", buyerCoins)
	}
}

func TestMarketFlow(t *testing.T) {
	var (
		alice = bazaar.NewCondition("sig", "ed25519", []byte{1, 2, 3})
		bob   = bazaar.NewCondition("sig", "ed25519", []byte{4, 5, 6})
		id    = []byte("degen_ape-42")
		ask   = coin.NewCoin(100, 0, "IOV")
		raise = coin.NewCoin(150, 0, "IOV")
	)

	f := newFixture()
	db := store.MemStore()
	issue := nft.NewIssueHandler(f.auth, f.assets, nft.NewBucketAttacher())

	// issue through the real handler so metadata exists as well
	issueTx := &bazaartest.Tx{Msg: &nft.IssueMsg{Id: id, Title: "Degen Ape", Uri: "ipfs://QmApe"}}
	if _, err := issue.Deliver(f.ctx(alice), db, issueTx); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}

	if _, err := f.list.Deliver(f.ctx(alice), db, &bazaartest.Tx{Msg: &ListMsg{AssetId: id, Price: &ask}}); err != nil {
		t.Fatalf("cannot list: %+v", err)
	}
	if _, err := f.list.Deliver(f.ctx(alice), db, &bazaartest.Tx{Msg: &ListMsg{AssetId: id, Price: &raise}}); err != nil {
		t.Fatalf("cannot raise the ask: %+v", err)
	}

	if err := f.coins.IssueCoins(db, bob.Address(), raise); err != nil {
		t.Fatalf("cannot fund buyer: %+v", err)
	}
	if _, err := f.buy.Deliver(f.ctx(bob), db, &bazaartest.Tx{Msg: &BuyMsg{AssetId: id}}); err != nil {
		t.Fatalf("cannot buy: %+v", err)
	}

	// the raised price is what the seller collected
	sellerCoins, err := f.coins.Balance(db, alice.Address())
	if err != nil {
		t.Fatalf("cannot load seller balance: %+v", err)
	}
	if !sellerCoins.Contains(raise) {
		t.Fatalf("seller did not collect the raised ask: %v", sellerCoins)
	}
	if has, _ := f.assets.HasUnit(db, id, bob.Address()); !has {
		t.Fatal("buyer does not hold the unit")
	}

	// the new holder can list again right away
	if _, err := f.list.Deliver(f.ctx(bob), db, &bazaartest.Tx{Msg: &ListMsg{AssetId: id, Price: &ask}}); err != nil {
		t.Fatalf("new holder cannot relist: %+v", err)
	}
	listing, err := NewBucket().GetListing(db, id)
	if err != nil {
		t.Fatalf("cannot load listing: %+v", err)
	}
	if !bob.Address().Equals(listing.Owner) {
		t.Fatalf("unexpected listing owner: %q", listing.Owner)
	}
}
