package cash

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

//---- Set

// Validate requires that all coins are in alphabetical order
func (s *Set) Validate() error {
	return coin.Coins(s.GetCoins()).Validate()
}

// Copy makes a new set with the same coins
func (s *Set) Copy() orm.CloneableData {
	return &Set{
		Coins: coin.Coins(s.GetCoins()).Clone(),
	}
}

//--- Wallet (Set object, coins + key)

// Wallet is the actual object that we want to pass around
// in our code. It contains a set of coins, as well as the
// address. It is connected to the Bucket to easily manipulate
// state.
//
// Wallet is a type-safe wrapper around orm.SimpleObj
type Wallet struct {
	key   []byte
	value *Set
}

var _ orm.Object = (*Wallet)(nil)

// NewWallet creates an empty wallet with this address
func NewWallet(key bazaar.Address) *Wallet {
	return &Wallet{
		key:   key,
		value: new(Set),
	}
}

// WalletWith creates an wallet with a balance
func WalletWith(key bazaar.Address, coins ...*coin.Coin) (*Wallet, error) {
	wallet := NewWallet(key)
	if err := wallet.Concat(coins); err != nil {
		return nil, err
	}
	return wallet, nil
}

// Value gets the value stored in the object
func (w Wallet) Value() bazaar.Persistent {
	return w.value
}

// Key returns the key to store the object under
func (w Wallet) Key() []byte {
	return w.key
}

// Validate makes sure the fields aren't empty.
// And delegates to the value validator if present
func (w Wallet) Validate() error {
	if len(w.key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "wallet key")
	}
	return w.value.Validate()
}

// SetKey may be used to update a simple obj key
func (w *Wallet) SetKey(key []byte) {
	w.key = key
}

// Clone will make a copy of this object
func (w *Wallet) Clone() orm.Object {
	res := &Wallet{
		value: w.value.Copy().(*Set),
	}
	// only copy key if non-nil
	if len(w.key) > 0 {
		res.key = append([]byte(nil), w.key...)
	}
	return res
}

// Coins returns the coins stored in the wallet
func (w Wallet) Coins() coin.Coins {
	return coin.Coins(w.value.GetCoins())
}

// Add modifies the wallet to add Coin c
func (w *Wallet) Add(c coin.Coin) error {
	cs, err := w.Coins().Add(c)
	if err != nil {
		return err
	}
	w.value.Coins = cs
	return nil
}

// Subtract modifies the wallet to remove Coin c
func (w *Wallet) Subtract(c coin.Coin) error {
	return w.Add(c.Negative())
}

// Concat combines the coins to make sure they are sorted
// and rounded off, with no duplicates or 0 values.
func (w *Wallet) Concat(coins coin.Coins) error {
	joint, err := w.Coins().Combine(coins)
	if err != nil {
		return err
	}
	w.value.Coins = joint
	return nil
}

// AsWallet safely extracts a Wallet from a generic object
func AsWallet(obj orm.Object) *Wallet {
	if obj == nil {
		return nil
	}
	return obj.(*Wallet)
}

//--- cash.Bucket - type-safe bucket

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewWallet(nil)),
	}
}

// Get returns the wallet under the address, nil if none is stored
func (b Bucket) Get(db bazaar.ReadOnlyKVStore, key bazaar.Address) (*Wallet, error) {
	obj, err := b.Bucket.Get(db, key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*Wallet), nil
}

// Save persists the wallet
func (b Bucket) Save(db bazaar.KVStore, wallet *Wallet) error {
	return b.Bucket.Save(db, wallet)
}

// GetOrCreate returns the wallet under the address, creating an
// empty one if none was stored yet
func (b Bucket) GetOrCreate(db bazaar.KVStore, key bazaar.Address) (*Wallet, error) {
	wallet, err := b.Get(db, key)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		wallet = NewWallet(key)
	}
	return wallet, nil
}
