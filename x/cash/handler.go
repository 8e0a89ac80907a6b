package cash

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r bazaar.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// RegisterQuery will register the wallet bucket as "/wallets"
func RegisterQuery(qr bazaar.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ bazaar.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the tokens from src to dest if
// all preconditions are met
func (h SendHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Src, msg.Dest, *msg.Amount); err != nil {
		return nil, err
	}
	return &bazaar.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx bazaar.Context, tx bazaar.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	// make sure we have permission from the source
	if !h.auth.HasAddress(ctx, msg.Src) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "wallet owner signature missing")
	}
	return &msg, nil
}
