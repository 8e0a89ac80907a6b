package market

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// DefaultSeed is the custody seed used when genesis does not
// override it. One seed means one marketplace-wide custody
// authority.
const DefaultSeed = "bazaar"

const maxSeedSize = 32

// seedKey stores the active custody seed, outside any bucket
// namespace.
var seedKey = []byte("_market:seed")

// Derive walks the bump space from 255 down to 0 and returns the
// first custody condition whose address does not start with a zero
// byte. Zero-lead addresses are the reserved class no account may
// occupy, which keeps the custody authority off any key-derived
// identity. The walk is deterministic, the same seed always yields
// the same condition and bump.
//
// The authority holds no private key. Handlers exercise it by
// acting on custody holdings inside their own transition.
func Derive(seed []byte) (bazaar.Condition, uint8, error) {
	return derive(seed, isReserved)
}

// isReserved marks the address class no identity may occupy
func isReserved(addr bazaar.Address) bool {
	return addr[0] == 0
}

func derive(seed []byte, reserved func(bazaar.Address) bool) (bazaar.Condition, uint8, error) {
	if err := validateSeed(seed); err != nil {
		return nil, 0, err
	}
	data := make([]byte, 0, len(seed)+1)
	for i := 255; i >= 0; i-- {
		bump := uint8(i)
		data = append(data[:0], seed...)
		data = append(data, bump)
		cond := bazaar.NewCondition("market", "custody", data)
		if addr := cond.Address(); !reserved(addr) {
			return cond, bump, nil
		}
	}
	return nil, 0, errors.Wrapf(ErrDerivationFailed, "seed %X", seed)
}

func validateSeed(seed []byte) error {
	if len(seed) == 0 {
		return errors.Wrap(errors.ErrEmpty, "custody seed")
	}
	if len(seed) > maxSeedSize {
		return errors.Wrap(errors.ErrInput, "custody seed too long")
	}
	return nil
}

// SetSeed writes the custody seed this chain uses. It is meant to
// be called once, from genesis initialization.
func SetSeed(db bazaar.KVStore, seed []byte) error {
	if err := validateSeed(seed); err != nil {
		return err
	}
	// the seed pins the custody address, it must never change on a
	// running chain
	if existing := db.Get(seedKey); existing != nil {
		return errors.Wrap(errors.ErrImmutable, "custody seed")
	}
	db.Set(seedKey, seed)
	return nil
}

// loadSeed returns the configured custody seed, or the default
func loadSeed(db bazaar.ReadOnlyKVStore) []byte {
	if seed := db.Get(seedKey); seed != nil {
		return seed
	}
	return []byte(DefaultSeed)
}

// CustodyAddress derives the custody authority address for the
// seed configured in the db.
func CustodyAddress(db bazaar.ReadOnlyKVStore) (bazaar.Address, error) {
	cond, _, err := Derive(loadSeed(db))
	if err != nil {
		return nil, err
	}
	return cond.Address(), nil
}
