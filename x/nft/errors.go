package nft

import (
	"github.com/iov-one/bazaar/errors"
)

var (
	// ErrAlreadyInitialized is raised when issuing a token under an id
	// that is already taken.
	ErrAlreadyInitialized = errors.Register(1100, "token already initialized")

	// ErrAuthorityMismatch is raised when the declared issuer did not
	// authorize the transaction.
	ErrAuthorityMismatch = errors.Register(1101, "authority mismatch")

	// ErrTransferFailed is raised when a unit cannot be moved, for
	// example because the source holding does not hold it.
	ErrTransferFailed = errors.Register(1102, "transfer failed")

	// ErrInvalidAssetID is raised when an asset id does not match the
	// required format.
	ErrInvalidAssetID = errors.Register(1103, "invalid asset id")
)
