package nft

import (
	"testing"

	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
)

func TestIssueToken(t *testing.T) {
	var (
		issuer = bazaartest.RandomAddr(t)
		other  = bazaartest.RandomAddr(t)
		id     = []byte("my_asset-01")
	)
	control := NewController()
	db := store.MemStore()

	if err := control.Issue(db, id, issuer); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}

	token, err := control.GetToken(db, id)
	if err != nil {
		t.Fatalf("cannot load token: %+v", err)
	}
	if token == nil || token.Supply != 1 {
		t.Fatalf("unexpected token: %v", token)
	}
	if !issuer.Equals(token.Issuer) {
		t.Fatalf("unexpected issuer: %q", token.Issuer)
	}

	// the unit sits in the issuer holding and nowhere else
	if has, _ := control.HasUnit(db, id, issuer); !has {
		t.Fatal("issuer does not hold the unit")
	}
	if has, _ := control.HasUnit(db, id, other); has {
		t.Fatal("unit was minted to the wrong holding")
	}

	// the same id cannot be issued twice, not even by the same issuer
	if err := control.Issue(db, id, issuer); !ErrAlreadyInitialized.Is(err) {
		t.Fatalf("wanted already initialized error, got %+v", err)
	}
	if err := control.Issue(db, id, other); !ErrAlreadyInitialized.Is(err) {
		t.Fatalf("wanted already initialized error, got %+v", err)
	}

	// a malformed id is rejected before touching the state
	if err := control.Issue(db, []byte("?!"), issuer); !ErrInvalidAssetID.Is(err) {
		t.Fatalf("wanted invalid asset id error, got %+v", err)
	}
}

func TestMoveUnit(t *testing.T) {
	var (
		alice = bazaartest.RandomAddr(t)
		bob   = bazaartest.RandomAddr(t)
		carol = bazaartest.RandomAddr(t)
		id    = []byte("my_asset-01")
	)
	control := NewController()
	db := store.MemStore()

	if err := control.Issue(db, id, alice); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}

	// only the holder can be moved from
	if err := control.Move(db, id, bob, carol); !ErrTransferFailed.Is(err) {
		t.Fatalf("wanted transfer failed error, got %+v", err)
	}

	if err := control.Move(db, id, alice, bob); err != nil {
		t.Fatalf("cannot move: %+v", err)
	}
	if has, _ := control.HasUnit(db, id, alice); has {
		t.Fatal("unit was not released from the source")
	}
	if has, _ := control.HasUnit(db, id, bob); !has {
		t.Fatal("unit did not arrive at the destination")
	}

	// a move to oneself is a noop, not a burn
	if err := control.Move(db, id, bob, bob); err != nil {
		t.Fatalf("cannot self-move: %+v", err)
	}
	if has, _ := control.HasUnit(db, id, bob); !has {
		t.Fatal("self-move lost the unit")
	}

	// a spent source cannot move the unit again
	if err := control.Move(db, id, alice, carol); !ErrTransferFailed.Is(err) {
		t.Fatalf("wanted transfer failed error, got %+v", err)
	}
}

func TestHasUnitUnknownAsset(t *testing.T) {
	db := store.MemStore()
	has, err := NewController().HasUnit(db, []byte("nope"), bazaartest.RandomAddr(t))
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if has {
		t.Fatal("unknown asset must not be held")
	}
}

func TestMetadataFrozen(t *testing.T) {
	var (
		creator = bazaartest.RandomAddr(t)
		id      = []byte("my_asset-01")
	)
	attacher := NewBucketAttacher()
	db := store.MemStore()

	meta := &TokenMetadata{
		Title:        "My Asset",
		Uri:          "ipfs://abc",
		Creator:      creator,
		CreatorShare: FullShare,
	}
	if err := attacher.Attach(db, id, meta); err != nil {
		t.Fatalf("cannot attach: %+v", err)
	}

	stored, err := attacher.Metadata(db, id)
	if err != nil {
		t.Fatalf("cannot load metadata: %+v", err)
	}
	if stored == nil || stored.Title != "My Asset" || stored.CreatorShare != FullShare {
		t.Fatalf("unexpected metadata: %v", stored)
	}

	// attached metadata is frozen
	update := &TokenMetadata{
		Title:        "Renamed",
		Creator:      creator,
		CreatorShare: FullShare,
	}
	if err := attacher.Attach(db, id, update); !errors.ErrImmutable.Is(err) {
		t.Fatalf("wanted immutable error, got %+v", err)
	}
}
