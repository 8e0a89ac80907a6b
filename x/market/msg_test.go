package market

import (
	"testing"

	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x/nft"
)

func TestValidateListMsg(t *testing.T) {
	owner := bazaartest.RandomAddr(t)
	id := []byte("degen_ape-42")

	cases := map[string]struct {
		Msg     *ListMsg
		WantErr *errors.Error
	}{
		"valid message": {
			Msg: &ListMsg{AssetId: id, Owner: owner, Price: coin.NewCoinp(100, 0, "MONY")},
		},
		"owner may be empty": {
			Msg: &ListMsg{AssetId: id, Price: coin.NewCoinp(100, 0, "MONY")},
		},
		"zero price is a valid ask": {
			Msg: &ListMsg{AssetId: id, Owner: owner, Price: &coin.Coin{}},
		},
		"negative price is rejected": {
			Msg:     &ListMsg{AssetId: id, Owner: owner, Price: coin.NewCoinp(-1, 0, "MONY")},
			WantErr: errors.ErrAmount,
		},
		"missing price": {
			Msg:     &ListMsg{AssetId: id, Owner: owner},
			WantErr: errors.ErrEmpty,
		},
		"bad ticker": {
			Msg:     &ListMsg{AssetId: id, Owner: owner, Price: coin.NewCoinp(100, 0, "money")},
			WantErr: errors.ErrCurrency,
		},
		"malformed asset id": {
			Msg:     &ListMsg{AssetId: []byte("NO"), Owner: owner, Price: coin.NewCoinp(1, 0, "MONY")},
			WantErr: nft.ErrInvalidAssetID,
		},
		"truncated owner address": {
			Msg:     &ListMsg{AssetId: id, Owner: owner[:5], Price: coin.NewCoinp(1, 0, "MONY")},
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.Msg.Validate(); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected validation error: %+v", err)
			}
		})
	}
}

func TestValidateBuyMsg(t *testing.T) {
	buyer := bazaartest.RandomAddr(t)
	id := []byte("degen_ape-42")

	if err := (&BuyMsg{AssetId: id, Buyer: buyer}).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %+v", err)
	}
	if err := (&BuyMsg{AssetId: id}).Validate(); err != nil {
		t.Fatalf("empty buyer must be allowed: %+v", err)
	}
	if err := (&BuyMsg{AssetId: []byte("NO"), Buyer: buyer}).Validate(); err == nil {
		t.Fatal("malformed asset id must be rejected")
	}
	if err := (&BuyMsg{AssetId: id, Buyer: buyer[:5]}).Validate(); !errors.ErrInput.Is(err) {
		t.Fatalf("wanted address error, got %+v", err)
	}
}
