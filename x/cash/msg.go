package cash

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
)

// Ensure we implement the Msg interface
var _ bazaar.Msg = (*SendMsg)(nil)

const (
	pathSendMsg = "cash/send"

	sendTxCost int64 = 100

	maxMemoSize = 128
	maxRefSize  = 64
)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	amount := s.GetAmount()
	if coin.IsEmpty(amount) || !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive SendMsg: %#v", amount)
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := bazaar.Address(s.Src).Validate(); err != nil {
		return errors.Wrap(err, "src")
	}
	if err := bazaar.Address(s.Dest).Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	if len(s.GetMemo()) > maxMemoSize {
		return errors.Wrap(errors.ErrMsg, "memo too long")
	}
	if len(s.GetRef()) > maxRefSize {
		return errors.Wrap(errors.ErrMsg, "ref too long")
	}
	return nil
}

// DefaultSource makes sure there is a sender.
// If it was already set, returns s.
// If none was set, returns a new SendMsg with the source set
func (s *SendMsg) DefaultSource(addr []byte) *SendMsg {
	if len(s.GetSrc()) != 0 {
		return s
	}
	return &SendMsg{
		Src:    addr,
		Dest:   s.GetDest(),
		Amount: s.GetAmount(),
		Memo:   s.GetMemo(),
		Ref:    s.GetRef(),
	}
}
