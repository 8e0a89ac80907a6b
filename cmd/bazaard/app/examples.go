package app

import (
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/commands"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/market"
	"github.com/iov-one/bazaar/x/nft"
	"github.com/iov-one/bazaar/x/sigs"
)

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	wallet := &cash.Set{
		Coins: []*coin.Coin{
			{Whole: 50000, Ticker: "ETH"},
			{Whole: 150, Fractional: 567000, Ticker: "BTC"},
		},
	}

	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()
	user := &sigs.UserData{
		Pubkey:   pub,
		Sequence: 17,
	}

	issuer := pub.Address()
	token := &nft.IssueMsg{
		Id:     []byte("bored-ape-1337"),
		Issuer: issuer,
		Title:  "Bored Ape #1337",
		Uri:    "ipfs://QmZ4tDuvesekSs4qM5ZBKpXiZGun7S2CYtEZRB3DYXkjGx",
	}

	ask := coin.NewCoin(250, 0, "ETH")
	list := &market.ListMsg{
		AssetId: token.Id,
		Owner:   issuer,
		Price:   &ask,
	}

	buyer := crypto.GenPrivKeyEd25519().PublicKey().Address()
	buy := &market.BuyMsg{
		AssetId: token.Id,
		Buyer:   buyer,
	}

	unsigned := Tx{
		Sum: &Tx_ListNftMsg{list},
	}
	tx := unsigned
	sig, err := sigs.SignTx(priv, &tx, "test-123", 17)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	return []commands.Example{
		{Filename: "wallet", Obj: wallet},
		{Filename: "priv_key", Obj: priv},
		{Filename: "pub_key", Obj: pub},
		{Filename: "user", Obj: user},
		{Filename: "issue_msg", Obj: token},
		{Filename: "list_msg", Obj: list},
		{Filename: "buy_msg", Obj: buy},
		{Filename: "unsigned_tx", Obj: &unsigned},
		{Filename: "signed_tx", Obj: &tx},
	}
}
