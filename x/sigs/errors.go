package sigs

import (
	"github.com/iov-one/bazaar/errors"
)

var (
	// ErrInvalidSequence is raised when the sequence in a signature does
	// not match the expected next value for the signing account.
	ErrInvalidSequence = errors.Register(1300, "invalid sequence")
)
