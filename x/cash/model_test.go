package cash

import (
	"testing"

	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/coin"
)

func TestWalletValidation(t *testing.T) {
	addr := bazaartest.RandomAddr(t)

	// an empty wallet without a key is invalid
	if err := NewWallet(nil).Validate(); err == nil {
		t.Fatal("wallet without a key must not validate")
	}

	// an empty wallet with a key is fine
	if err := NewWallet(addr).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %+v", err)
	}

	wallet, err := WalletWith(addr,
		coin.NewCoinp(50, 0, "BTC"),
		coin.NewCoinp(10, 0, "ETH"),
	)
	if err != nil {
		t.Fatalf("cannot create wallet: %+v", err)
	}
	assert.Nil(t, wallet.Validate())

	// duplicate tickers are merged, not rejected
	wallet, err = WalletWith(addr,
		coin.NewCoinp(50, 0, "BTC"),
		coin.NewCoinp(10, 0, "BTC"),
	)
	if err != nil {
		t.Fatalf("cannot create wallet: %+v", err)
	}
	assert.Equal(t, 1, wallet.Coins().Count())
	assert.Nil(t, wallet.Validate())
}

func TestWalletClone(t *testing.T) {
	addr := bazaartest.RandomAddr(t)
	wallet, err := WalletWith(addr, coin.NewCoinp(10, 0, "FOO"))
	if err != nil {
		t.Fatalf("cannot create wallet: %+v", err)
	}

	clone := wallet.Clone().(*Wallet)
	if err := clone.Add(coin.NewCoin(5, 0, "FOO")); err != nil {
		t.Fatalf("cannot add coins: %+v", err)
	}

	// the original must be untouched
	if !wallet.Coins().Contains(coin.NewCoin(10, 0, "FOO")) {
		t.Fatal("original wallet lost coins")
	}
	if wallet.Coins().Contains(coin.NewCoin(15, 0, "FOO")) {
		t.Fatal("original wallet was mutated by the clone")
	}
	if !clone.Coins().Contains(coin.NewCoin(15, 0, "FOO")) {
		t.Fatal("clone does not hold the added coins")
	}
}

func TestWalletArithmetic(t *testing.T) {
	wallet := NewWallet(bazaartest.RandomAddr(t))

	assert.Nil(t, wallet.Add(coin.NewCoin(100, 0, "FOO")))
	assert.Nil(t, wallet.Subtract(coin.NewCoin(40, 0, "FOO")))
	if !wallet.Coins().Contains(coin.NewCoin(60, 0, "FOO")) {
		t.Fatalf("unexpected balance: %v", wallet.Coins())
	}

	// subtracting below zero is allowed on the wallet level,
	// the controller enforces solvency
	assert.Nil(t, wallet.Subtract(coin.NewCoin(100, 0, "FOO")))
	if wallet.Coins().IsNonNegative() {
		t.Fatalf("wanted a debt, got %v", wallet.Coins())
	}
}
