package market

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/nft"
	"github.com/tendermint/tendermint/libs/common"
)

// Tag keys emitted on successful listings and sales
const (
	TagAsset       = "asset"
	TagOwner       = "owner"
	TagPrice       = "price"
	TagSeller      = "seller"
	TagBuyer       = "buyer"
	TagMarketplace = "marketplace"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r bazaar.Registry, auth x.Authenticator, assets nft.Controller, coins cash.Controller) {
	r.Handle(&ListMsg{}, NewListHandler(auth, assets))
	r.Handle(&BuyMsg{}, NewBuyHandler(auth, assets, coins))
}

// RegisterQuery will register the listing bucket as "/listings"
func RegisterQuery(qr bazaar.QueryRouter) {
	NewBucket().Register("listings", qr)
}

// ListHandler moves assets into custody and writes listings
type ListHandler struct {
	auth   x.Authenticator
	assets nft.Controller
	bucket Bucket
}

var _ bazaar.Handler = ListHandler{}

// NewListHandler creates a handler for ListMsg
func NewListHandler(auth x.Authenticator, assets nft.Controller) ListHandler {
	return ListHandler{
		auth:   auth,
		assets: assets,
		bucket: NewBucket(),
	}
}

// Check verifies the message and the owner authorization
func (h ListHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: listTxCost}, nil
}

// Deliver lists the asset. A fresh listing moves the unit into
// custody; re-listing by the same owner only updates the price.
func (h ListHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	owner := bazaar.Address(msg.Owner)

	custody, err := CustodyAddress(db)
	if err != nil {
		return nil, err
	}

	listing, err := h.bucket.GetListing(db, msg.AssetId)
	if err != nil {
		return nil, err
	}
	switch {
	case listing != nil:
		// price update, the unit must not move again
		if !owner.Equals(listing.Owner) {
			return nil, errors.Wrapf(ErrOwnershipMismatch, "listed by %s", bazaar.Address(listing.Owner))
		}
		if has, err := h.assets.HasUnit(db, msg.AssetId, custody); err != nil {
			return nil, err
		} else if !has {
			return nil, errors.Wrapf(ErrCustodyMismatch, "%q escaped custody", msg.AssetId)
		}
	default:
		// fresh listing, the owner hands the unit over to custody
		if has, err := h.assets.HasUnit(db, msg.AssetId, owner); err != nil {
			return nil, err
		} else if !has {
			return nil, errors.Wrapf(ErrOwnershipMismatch, "%q not held by %s", msg.AssetId, owner)
		}
		if err := h.assets.Move(db, msg.AssetId, owner, custody); err != nil {
			return nil, err
		}
	}

	if err := h.bucket.SaveListing(db, msg.AssetId, owner, *msg.Price); err != nil {
		return nil, errors.Wrap(err, "save listing")
	}

	res := &bazaar.DeliverResult{
		Tags: []common.KVPair{
			{Key: []byte(TagAsset), Value: msg.AssetId},
			{Key: []byte(TagOwner), Value: []byte(owner.String())},
			{Key: []byte(TagPrice), Value: []byte(msg.Price.String())},
			{Key: []byte(TagMarketplace), Value: []byte(custody.String())},
		},
	}
	return res, nil
}

func (h ListHandler) validate(ctx bazaar.Context, tx bazaar.Tx) (*ListMsg, error) {
	var msg ListMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	signer := x.MainSigner(ctx, h.auth)
	withOwner := msg.DefaultOwner(signer.Address())
	if len(withOwner.Owner) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer to list for")
	}
	if !h.auth.HasAddress(ctx, withOwner.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner did not sign")
	}
	return withOwner, nil
}

// BuyHandler executes sales of listed assets
type BuyHandler struct {
	auth   x.Authenticator
	assets nft.Controller
	coins  cash.Controller
	bucket Bucket
}

var _ bazaar.Handler = BuyHandler{}

// NewBuyHandler creates a handler for BuyMsg
func NewBuyHandler(auth x.Authenticator, assets nft.Controller, coins cash.Controller) BuyHandler {
	return BuyHandler{
		auth:   auth,
		assets: assets,
		coins:  coins,
		bucket: NewBucket(),
	}
}

// Check verifies the message and the buyer authorization
func (h BuyHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: buyTxCost}, nil
}

// Deliver executes the sale: the price moves buyer to seller, the
// unit moves custody to buyer, the listing dies. Any failure along
// the way aborts the whole transition via the savepoint above.
func (h BuyHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	buyer := bazaar.Address(msg.Buyer)

	listing, err := h.bucket.GetListing(db, msg.AssetId)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, errors.Wrapf(ErrListingNotFound, "%q", msg.AssetId)
	}
	seller := bazaar.Address(listing.Owner)

	// the buyer must afford the asset before anything moves
	price := *listing.Price
	if price.IsPositive() {
		balance, err := h.coins.Balance(db, buyer)
		if err != nil {
			return nil, err
		}
		if !balance.Contains(price) {
			return nil, errors.Wrapf(cash.ErrInsufficientFunds, "%v to buy %q", &price, msg.AssetId)
		}
		if err := h.coins.MoveCoins(db, buyer, seller, price); err != nil {
			return nil, errors.Wrap(err, "pay seller")
		}
	}

	// the unit must sit exactly at the custody address
	custody, err := CustodyAddress(db)
	if err != nil {
		return nil, err
	}
	if has, err := h.assets.HasUnit(db, msg.AssetId, custody); err != nil {
		return nil, err
	} else if !has {
		return nil, errors.Wrapf(ErrCustodyMismatch, "%q escaped custody", msg.AssetId)
	}
	if err := h.assets.Move(db, msg.AssetId, custody, buyer); err != nil {
		return nil, errors.Wrap(err, "release unit")
	}

	if err := h.bucket.Delete(db, msg.AssetId); err != nil {
		return nil, errors.Wrap(err, "destroy listing")
	}

	res := &bazaar.DeliverResult{
		Tags: []common.KVPair{
			{Key: []byte(TagAsset), Value: msg.AssetId},
			{Key: []byte(TagSeller), Value: []byte(seller.String())},
			{Key: []byte(TagBuyer), Value: []byte(buyer.String())},
			{Key: []byte(TagMarketplace), Value: []byte(custody.String())},
		},
	}
	return res, nil
}

func (h BuyHandler) validate(ctx bazaar.Context, tx bazaar.Tx) (*BuyMsg, error) {
	var msg BuyMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	signer := x.MainSigner(ctx, h.auth)
	withBuyer := msg.DefaultBuyer(signer.Address())
	if len(withBuyer.Buyer) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer to buy for")
	}
	if !h.auth.HasAddress(ctx, withBuyer.Buyer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "buyer did not sign")
	}
	return withBuyer, nil
}
