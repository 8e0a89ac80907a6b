package market

import (
	"github.com/iov-one/bazaar"
)

const optKey = "market"

type genesisOptions struct {
	CustodySeed string `json:"custody_seed"`
}

// Initializer fulfils the Initializer interface to load the custody
// seed override from the genesis file
type Initializer struct{}

var _ bazaar.Initializer = Initializer{}

// FromGenesis stores the custody seed if genesis overrides it.
// Without an override the default seed is used.
func (Initializer) FromGenesis(opts bazaar.Options, kv bazaar.KVStore) error {
	var gen genesisOptions
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}
	if gen.CustodySeed == "" {
		return nil
	}
	return SetSeed(kv, []byte(gen.CustodySeed))
}
