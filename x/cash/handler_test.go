package cash

import (
	"context"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
)

func TestSendHandler(t *testing.T) {
	foo := coin.NewCoin(100, 0, "FOO")
	some := coin.NewCoin(300, 0, "SOME")

	perm1 := bazaar.NewCondition("sig", "ed25519", []byte{1, 2, 3})
	perm2 := bazaar.NewCondition("sig", "ed25519", []byte{4, 5, 6})
	addr1 := perm1.Address()
	addr2 := perm2.Address()

	cases := map[string]struct {
		Signers        []bazaar.Condition
		InitCoins      coin.Coins
		Msg            bazaar.Msg
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantBalance    coin.Coins
	}{
		"missing message content": {
			Msg:            &SendMsg{},
			WantCheckErr:   errors.ErrAmount,
			WantDeliverErr: errors.ErrAmount,
		},
		"signature of the source is required": {
			Msg:            &SendMsg{Src: addr1, Dest: addr2, Amount: &foo},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"signature of the destination is not enough": {
			Signers:        []bazaar.Condition{perm2},
			Msg:            &SendMsg{Src: addr1, Dest: addr2, Amount: &foo},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"source wallet must be funded": {
			Signers:        []bazaar.Condition{perm1},
			Msg:            &SendMsg{Src: addr1, Dest: addr2, Amount: &foo},
			WantDeliverErr: ErrEmptyWallet,
		},
		"source wallet must hold the currency": {
			Signers:        []bazaar.Condition{perm1},
			InitCoins:      coin.Coins{&some},
			Msg:            &SendMsg{Src: addr1, Dest: addr2, Amount: &foo},
			WantDeliverErr: ErrInsufficientFunds,
		},
		"happy path": {
			Signers:     []bazaar.Condition{perm1},
			InitCoins:   coin.Coins{&foo, &some},
			Msg:         &SendMsg{Src: addr1, Dest: addr2, Amount: &foo},
			WantBalance: coin.Coins{&foo},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &bazaartest.CtxAuth{Key: "auth"}
			h := NewSendHandler(auth, NewController())
			db := store.MemStore()

			if tc.InitCoins != nil {
				wallet, err := WalletWith(addr1, tc.InitCoins...)
				if err != nil {
					t.Fatalf("cannot create wallet: %+v", err)
				}
				if err := NewBucket().Save(db, wallet); err != nil {
					t.Fatalf("cannot save wallet: %+v", err)
				}
			}

			ctx := auth.SetConditions(context.Background(), tc.Signers...)
			tx := &bazaartest.Tx{Msg: tc.Msg}

			cache := db.CacheWrap()
			if _, err := h.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			if _, err := h.Deliver(ctx, db, tx); !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.WantDeliverErr != nil {
				return
			}

			recipient, err := NewBucket().Get(db, addr2)
			if err != nil {
				t.Fatalf("cannot load recipient: %+v", err)
			}
			if recipient == nil || !recipient.Coins().Equals(tc.WantBalance) {
				t.Fatalf("unexpected recipient wallet: %v", recipient)
			}
		})
	}
}
