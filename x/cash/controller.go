package cash

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
)

// Controller is the functionality needed by other extensions that
// want to move coins around without going through a SendMsg.
type Controller interface {
	MoveCoins(db bazaar.KVStore, src, dest bazaar.Address, amount coin.Coin) error
	IssueCoins(db bazaar.KVStore, dest bazaar.Address, amount coin.Coin) error
	Balance(db bazaar.ReadOnlyKVStore, addr bazaar.Address) (coin.Coins, error)
}

// WalletController implements Controller on top of the wallet bucket.
type WalletController struct {
	bucket Bucket
}

var _ Controller = WalletController{}

// NewController returns a controller using the default wallet bucket
func NewController() WalletController {
	return WalletController{bucket: NewBucket()}
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c WalletController) MoveCoins(db bazaar.KVStore, src, dest bazaar.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %v", &amount)
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(ErrEmptyWallet, "%s", src)
	}
	if !sender.Coins().Contains(amount) {
		return errors.Wrapf(ErrInsufficientFunds, "%v in %s", &amount, src)
	}
	// paying yourself nets to zero
	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}

	// save them and return
	if err := c.bucket.Save(db, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
//
// Note the amount may also be negative:
// "the lord giveth and the lord taketh away"
func (c WalletController) IssueCoins(db bazaar.KVStore, dest bazaar.Address, amount coin.Coin) error {
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// Balance returns the coins held under the address. An address
// without a wallet has an empty balance, not an error.
func (c WalletController) Balance(db bazaar.ReadOnlyKVStore, addr bazaar.Address) (coin.Coins, error) {
	wallet, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, nil
	}
	return wallet.Coins(), nil
}
