package cash

import (
	"testing"

	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
)

func TestMoveCoins(t *testing.T) {
	var (
		addr1 = bazaartest.RandomAddr(t)
		addr2 = bazaartest.RandomAddr(t)
		addr3 = bazaartest.RandomAddr(t)

		cc   = "MONY"
		bank = coin.NewCoin(50000, 0, cc)
		send = coin.NewCoin(120, 0, cc)
	)

	control := NewController()
	bucket := NewBucket()
	db := store.MemStore()

	// initialize money from a bank
	if err := control.IssueCoins(db, addr1, bank); err != nil {
		t.Fatalf("cannot issue coins: %+v", err)
	}

	// send nothing is an error
	if err := control.MoveCoins(db, addr1, addr2, coin.NewCoin(0, 0, cc)); !errors.ErrAmount.Is(err) {
		t.Fatalf("wanted amount error, got %+v", err)
	}

	// send from an address without a wallet
	if err := control.MoveCoins(db, addr3, addr2, send); !ErrEmptyWallet.Is(err) {
		t.Fatalf("wanted empty wallet error, got %+v", err)
	}

	// can't send more than you have
	if err := control.MoveCoins(db, addr1, addr2, coin.NewCoin(300000, 0, cc)); !ErrInsufficientFunds.Is(err) {
		t.Fatalf("wanted insufficient funds error, got %+v", err)
	}

	// can't send a currency you don't hold
	if err := control.MoveCoins(db, addr1, addr2, coin.NewCoin(5, 0, "BAD")); !ErrInsufficientFunds.Is(err) {
		t.Fatalf("wanted insufficient funds error, got %+v", err)
	}

	// a proper move adjusts both wallets
	if err := control.MoveCoins(db, addr1, addr2, send); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	sender, err := bucket.Get(db, addr1)
	if err != nil {
		t.Fatalf("cannot load sender: %+v", err)
	}
	if !sender.Coins().Equals(mustCombine(t, coin.NewCoin(49880, 0, cc))) {
		t.Fatalf("unexpected sender balance: %v", sender.Coins())
	}
	recipient, err := bucket.Get(db, addr2)
	if err != nil {
		t.Fatalf("cannot load recipient: %+v", err)
	}
	if !recipient.Coins().Equals(mustCombine(t, send)) {
		t.Fatalf("unexpected recipient balance: %v", recipient.Coins())
	}

	// paying yourself changes nothing
	if err := control.MoveCoins(db, addr2, addr2, send); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	self, err := control.Balance(db, addr2)
	if err != nil {
		t.Fatalf("cannot load balance: %+v", err)
	}
	if !self.Equals(mustCombine(t, send)) {
		t.Fatalf("self-payment changed the balance: %v", self)
	}

	// and the recipient can pass it on
	if err := control.MoveCoins(db, addr2, addr3, coin.NewCoin(20, 0, cc)); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	third, err := control.Balance(db, addr3)
	if err != nil {
		t.Fatalf("cannot load balance: %+v", err)
	}
	if !third.Equals(mustCombine(t, coin.NewCoin(20, 0, cc))) {
		t.Fatalf("unexpected balance: %v", third)
	}
}

func TestIssueCoins(t *testing.T) {
	var (
		addr1 = bazaartest.RandomAddr(t)
		addr2 = bazaartest.RandomAddr(t)

		plus  = coin.NewCoin(500, 1000, "FOO")
		minus = coin.NewCoin(-400, -600, "FOO")
		total = coin.NewCoin(100, 400, "FOO")
		other = coin.NewCoin(1, 0, "DING")
	)

	control := NewController()
	db := store.MemStore()

	// issue positive coins
	if err := control.IssueCoins(db, addr1, plus); err != nil {
		t.Fatalf("cannot issue coins: %+v", err)
	}
	// issue negative coins to reduce the balance
	if err := control.IssueCoins(db, addr1, minus); err != nil {
		t.Fatalf("cannot issue coins: %+v", err)
	}
	// a second currency stays separate
	if err := control.IssueCoins(db, addr2, other); err != nil {
		t.Fatalf("cannot issue coins: %+v", err)
	}

	balance, err := control.Balance(db, addr1)
	if err != nil {
		t.Fatalf("cannot load balance: %+v", err)
	}
	if !balance.Equals(mustCombine(t, total)) {
		t.Fatalf("unexpected balance: %v", balance)
	}

	// issuing cannot overflow a wallet
	if err := control.IssueCoins(db, addr2, coin.NewCoin(coin.MaxInt, 0, "DING")); !errors.ErrOverflow.Is(err) {
		t.Fatalf("wanted overflow error, got %+v", err)
	}
}

func TestBalanceEmptyAddress(t *testing.T) {
	db := store.MemStore()
	balance, err := NewController().Balance(db, bazaartest.RandomAddr(t))
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if balance != nil {
		t.Fatalf("wanted an empty balance, got %v", balance)
	}
}

func mustCombine(t testing.TB, coins ...coin.Coin) coin.Coins {
	t.Helper()
	cs, err := coin.CombineCoins(coins...)
	if err != nil {
		t.Fatalf("cannot combine coins: %+v", err)
	}
	return cs
}
