package market

import (
	"github.com/iov-one/bazaar/errors"
)

var (
	// ErrListingNotFound is raised when buying an asset that is not
	// listed for sale.
	ErrListingNotFound = errors.Register(1200, "listing not found")

	// ErrOwnershipMismatch is raised when listing an asset the sender
	// does not hold, or touching a listing created by somebody else.
	ErrOwnershipMismatch = errors.Register(1201, "ownership mismatch")

	// ErrCustodyMismatch is raised when a listed asset's unit is not
	// held by the custody authority. This signals state corruption
	// and aborts the sale unconditionally.
	ErrCustodyMismatch = errors.Register(1202, "custody mismatch")

	// ErrDerivationFailed is raised when no valid custody address can
	// be derived from the seed within the bounded bump search.
	ErrDerivationFailed = errors.Register(1203, "custody derivation failed")
)
