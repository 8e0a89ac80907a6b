package cash

import (
	"github.com/iov-one/bazaar/errors"
)

var (
	// ErrInsufficientFunds is raised when the source wallet does not
	// hold enough coins to cover the movement.
	ErrInsufficientFunds = errors.Register(1000, "insufficient funds")

	// ErrEmptyWallet is raised when moving coins out of an address
	// that has no wallet stored at all.
	ErrEmptyWallet = errors.Register(1001, "wallet empty")
)
