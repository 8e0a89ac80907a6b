package nft

import (
	"context"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/x/utils"
)

func TestIssueHandler(t *testing.T) {
	perm1 := bazaar.NewCondition("sig", "ed25519", []byte{1, 2, 3})
	perm2 := bazaar.NewCondition("sig", "ed25519", []byte{4, 5, 6})
	addr1 := perm1.Address()
	addr2 := perm2.Address()

	id := []byte("degen_ape-42")

	cases := map[string]struct {
		Signers        []bazaar.Condition
		Msg            *IssueMsg
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantOwner      bazaar.Address
	}{
		"happy path": {
			Signers:   []bazaar.Condition{perm1},
			Msg:       &IssueMsg{Id: id, Issuer: addr1, Title: "Ape", Uri: "ipfs://x"},
			WantOwner: addr1,
		},
		"issuer defaults to the main signer": {
			Signers:   []bazaar.Condition{perm2, perm1},
			Msg:       &IssueMsg{Id: id, Title: "Ape"},
			WantOwner: addr2,
		},
		"unsigned issuance is rejected": {
			Msg:            &IssueMsg{Id: id, Title: "Ape"},
			WantCheckErr:   ErrAuthorityMismatch,
			WantDeliverErr: ErrAuthorityMismatch,
		},
		"declared issuer must sign": {
			Signers:        []bazaar.Condition{perm2},
			Msg:            &IssueMsg{Id: id, Issuer: addr1, Title: "Ape"},
			WantCheckErr:   ErrAuthorityMismatch,
			WantDeliverErr: ErrAuthorityMismatch,
		},
		"malformed id is rejected": {
			Signers:        []bazaar.Condition{perm1},
			Msg:            &IssueMsg{Id: []byte("???"), Issuer: addr1, Title: "Ape"},
			WantCheckErr:   ErrInvalidAssetID,
			WantDeliverErr: ErrInvalidAssetID,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &bazaartest.CtxAuth{Key: "auth"}
			control := NewController()
			attacher := NewBucketAttacher()
			h := NewIssueHandler(auth, control, attacher)
			db := store.MemStore()

			ctx := auth.SetConditions(context.Background(), tc.Signers...)
			tx := &bazaartest.Tx{Msg: tc.Msg}

			cache := db.CacheWrap()
			if _, err := h.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			res, err := h.Deliver(ctx, db, tx)
			if !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.WantDeliverErr != nil {
				return
			}

			if len(res.Tags) != 3 {
				t.Fatalf("unexpected tags: %v", res.Tags)
			}
			if string(res.Tags[0].Key) != TagAsset || string(res.Tags[0].Value) != string(id) {
				t.Fatalf("unexpected asset tag: %v", res.Tags[0])
			}
			if string(res.Tags[1].Key) != TagOwner || string(res.Tags[1].Value) != tc.WantOwner.String() {
				t.Fatalf("unexpected owner tag: %v", res.Tags[1])
			}
			if string(res.Tags[2].Key) != TagMetadata {
				t.Fatalf("unexpected metadata tag: %v", res.Tags[2])
			}

			if has, _ := control.HasUnit(db, id, tc.WantOwner); !has {
				t.Fatal("owner does not hold the unit")
			}
			meta, err := attacher.Metadata(db, id)
			if err != nil {
				t.Fatalf("cannot load metadata: %+v", err)
			}
			if meta == nil || meta.Title != tc.Msg.Title {
				t.Fatalf("unexpected metadata: %v", meta)
			}
			if !tc.WantOwner.Equals(meta.Creator) {
				t.Fatalf("unexpected creator: %q", meta.Creator)
			}
		})
	}
}

func TestIssueDuplicateLeavesStateUntouched(t *testing.T) {
	perm := bazaar.NewCondition("sig", "ed25519", []byte{1, 2, 3})
	other := bazaar.NewCondition("sig", "ed25519", []byte{4, 5, 6})
	id := []byte("degen_ape-42")

	auth := &bazaartest.CtxAuth{Key: "auth"}
	control := NewController()
	h := NewIssueHandler(auth, control, NewBucketAttacher())
	db := store.MemStore()

	ctx := auth.SetConditions(context.Background(), perm)
	tx := &bazaartest.Tx{Msg: &IssueMsg{Id: id, Issuer: perm.Address(), Title: "Ape"}}
	if _, err := h.Deliver(ctx, db, tx); err != nil {
		t.Fatalf("cannot issue: %+v", err)
	}

	// a second issuance under the same id fails and the token still
	// belongs to the first issuer
	ctx2 := auth.SetConditions(context.Background(), other)
	tx2 := &bazaartest.Tx{Msg: &IssueMsg{Id: id, Issuer: other.Address(), Title: "Fake"}}
	if _, err := h.Deliver(ctx2, db, tx2); !ErrAlreadyInitialized.Is(err) {
		t.Fatalf("wanted already initialized error, got %+v", err)
	}
	token, err := control.GetToken(db, id)
	if err != nil {
		t.Fatalf("cannot load token: %+v", err)
	}
	if !perm.Address().Equals(token.Issuer) {
		t.Fatalf("token issuer was overwritten: %q", token.Issuer)
	}
}

type failingAttacher struct {
	err error
}

func (a failingAttacher) Attach(bazaar.KVStore, []byte, *TokenMetadata) error {
	return a.err
}

func TestAttacherFailureRollsBackMinting(t *testing.T) {
	perm := bazaar.NewCondition("sig", "ed25519", []byte{1, 2, 3})
	id := []byte("degen_ape-42")

	auth := &bazaartest.CtxAuth{Key: "auth"}
	control := NewController()
	boom := errors.ErrState.New("metadata store exploded")
	h := NewIssueHandler(auth, control, failingAttacher{err: boom})

	db := store.MemStore()
	ctx := auth.SetConditions(context.Background(), perm)
	tx := &bazaartest.Tx{Msg: &IssueMsg{Id: id, Issuer: perm.Address(), Title: "Ape"}}

	// deliver through the savepoint, as the real stack does
	sp := utils.NewSavepoint().OnDeliver()
	if _, err := sp.Deliver(ctx, db, tx, h); !errors.ErrState.Is(err) {
		t.Fatalf("wanted the attacher error, got %+v", err)
	}

	// the token write and the mint must both be gone
	token, err := control.GetToken(db, id)
	if err != nil {
		t.Fatalf("cannot load token: %+v", err)
	}
	if token != nil {
		t.Fatalf("token survived the rollback: %v", token)
	}
	if has, _ := control.HasUnit(db, id, perm.Address()); has {
		t.Fatal("minted unit survived the rollback")
	}
}
