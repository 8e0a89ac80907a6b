package bazaartest

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/crypto"
)

func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

func NewCondition() bazaar.Condition {
	return NewKey().PublicKey().Condition()
}
