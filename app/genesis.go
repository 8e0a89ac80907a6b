package app

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...bazaar.Initializer) bazaar.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []bazaar.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts bazaar.Options, kv bazaar.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

//------- storing chainID ---------

// _internal: is a prefix for keys the framework owns itself,
// outside of any bucket namespace
const chainIDKey = "_internal:chainID"

// loadChainID returns the chain id stored if any
func loadChainID(kv bazaar.KVStore) string {
	return string(kv.Get([]byte(chainIDKey)))
}

// saveChainID stores a chain id in the kv store.
// Returns an error if already set, or invalid name
func saveChainID(kv bazaar.KVStore, chainID string) error {
	if !bazaar.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	if kv.Has(k) {
		return errors.Wrap(errors.ErrImmutable, "chain id set in genesis")
	}
	kv.Set(k, []byte(chainID))
	return nil
}
