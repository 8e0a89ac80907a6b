package app

import (
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// BaseApp adds DeliverTx, CheckTx, and BeginBlock
// handlers to the storage and query functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder bazaar.TxDecoder
	handler bazaar.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	decoder bazaar.TxDecoder,
	handler bazaar.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return bazaar.DeliverTxError(err, b.debug)
	}

	ctx := bazaar.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", bazaar.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return bazaar.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return bazaar.CheckTxError(err, b.debug)
	}

	ctx := bazaar.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", bazaar.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return bazaar.CheckOrError(res, err, b.debug)
}

// loadTx calls the decoder, and captures any panics
func (b BaseApp) loadTx(txBytes []byte) (tx bazaar.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
