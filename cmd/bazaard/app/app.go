/*
Package app wires together the asset, market, wallet and signature
components into a single ABCI application.

It is a good place to see how the decorator chain, the message
router and the query router fit together. Replace single pieces
with custom implementations as your deployment grows.
*/
package app

import (
	"context"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/app"
	"github.com/iov-one/bazaar/orm"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/x"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/market"
	"github.com/iov-one/bazaar/x/nft"
	"github.com/iov-one/bazaar/x/sigs"
	"github.com/iov-one/bazaar/x/utils"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// CashControl returns a controller for wallet functions
func CashControl() cash.WalletController {
	return cash.NewController()
}

// AssetControl returns a controller for asset custody functions
func AssetControl() nft.TokenController {
	return nft.NewController()
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain(authFn x.Authenticator) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewKeyTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// Router returns a default router, dispatching to the
// wallet, asset and marketplace handlers
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	cash.RegisterRoutes(r, authFn, CashControl())
	nft.RegisterRoutes(r, authFn, AssetControl(), nft.NewBucketAttacher())
	market.RegisterRoutes(r, authFn, AssetControl(), CashControl())
	sigs.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/assets", "/listings",
// "/auth", and "/"
func QueryRouter() bazaar.QueryRouter {
	r := bazaar.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		nft.RegisterQuery,
		market.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() bazaar.Handler {
	authFn := Authenticator()
	return Chain(authFn).
		WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h bazaar.Handler,
	tx bazaar.TxDecoder, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv := CommitKVStore()
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	base := app.NewBaseApp(store, tx, h, debug)
	return base, nil
}

// CommitKVStore returns an initialized in-process KVStore.
// State is rebuilt from the blockchain on restart.
func CommitKVStore() bazaar.CommitKVStore {
	return store.NewMemCommitStore()
}
