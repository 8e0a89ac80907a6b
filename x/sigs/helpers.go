package sigs

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
)

//----- mock objects for testing...

type StdTx struct {
	bazaar.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ bazaar.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	tx := &bazaartest.Tx{
		Msg: &bazaartest.Msg{
			RoutePath:  "mock/payload",
			Serialized: payload,
		},
	}
	return &StdTx{Tx: tx}
}

func (tx StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx StdTx) GetSignBytes() ([]byte, error) {
	// marshal self w/o sigs
	s := tx.Signatures
	tx.Signatures = nil
	defer func() { tx.Signatures = s }()

	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}
