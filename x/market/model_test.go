package market

import (
	"testing"

	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
)

func TestValidateListing(t *testing.T) {
	owner := bazaartest.RandomAddr(t)

	cases := map[string]struct {
		Listing *Listing
		WantErr *errors.Error
	}{
		"valid listing": {
			Listing: &Listing{Owner: owner, Price: coin.NewCoinp(100, 0, "IOV")},
		},
		"zero price is a valid ask": {
			Listing: &Listing{Owner: owner, Price: &coin.Coin{}},
		},
		"negative price": {
			Listing: &Listing{Owner: owner, Price: coin.NewCoinp(-1, 0, "IOV")},
			WantErr: errors.ErrAmount,
		},
		"missing price": {
			Listing: &Listing{Owner: owner},
			WantErr: errors.ErrEmpty,
		},
		"bad ticker": {
			Listing: &Listing{Owner: owner, Price: coin.NewCoinp(1, 0, "money")},
			WantErr: errors.ErrCurrency,
		},
		"truncated owner": {
			Listing: &Listing{Owner: owner[:5], Price: coin.NewCoinp(1, 0, "IOV")},
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.Listing.Validate(); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestOwnerIndex(t *testing.T) {
	var (
		alice = bazaartest.RandomAddr(t)
		bob   = bazaartest.RandomAddr(t)
		price = coin.NewCoin(10, 0, "IOV")
	)
	bucket := NewBucket()
	db := store.MemStore()

	for _, id := range []string{"ape-01", "ape-02"} {
		if err := bucket.SaveListing(db, []byte(id), alice, price); err != nil {
			t.Fatalf("cannot save listing: %+v", err)
		}
	}
	if err := bucket.SaveListing(db, []byte("punk-07"), bob, price); err != nil {
		t.Fatalf("cannot save listing: %+v", err)
	}

	objs, err := bucket.ByOwner(db, alice)
	if err != nil {
		t.Fatalf("cannot query by owner: %+v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("wanted both of alice's listings, got %d", len(objs))
	}
	for _, obj := range objs {
		if listing := AsListing(obj); !alice.Equals(listing.Owner) {
			t.Fatalf("listing of a stranger: %q", listing.Owner)
		}
	}

	// a sale hands the listing over, the index must follow
	if err := bucket.SaveListing(db, []byte("ape-02"), bob, price); err != nil {
		t.Fatalf("cannot reassign listing: %+v", err)
	}
	objs, err = bucket.ByOwner(db, alice)
	if err != nil {
		t.Fatalf("cannot query by owner: %+v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("stale index entry: got %d listings", len(objs))
	}

	objs, err = bucket.ByOwner(db, bob)
	if err != nil {
		t.Fatalf("cannot query by owner: %+v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("wanted both of bob's listings, got %d", len(objs))
	}
}

func TestGetMissingListing(t *testing.T) {
	db := store.MemStore()
	listing, err := NewBucket().GetListing(db, []byte("never-listed"))
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if listing != nil {
		t.Fatalf("phantom listing: %v", listing)
	}
}
