package market

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// BucketName is where the listings live
const BucketName = "listings"

var _ orm.CloneableData = (*Listing)(nil)

// Validate ensures the listing is proper before writing it
func (l *Listing) Validate() error {
	if err := bazaar.Address(l.Owner).Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if l.Price == nil {
		return errors.Wrap(errors.ErrEmpty, "price")
	}
	if err := l.Price.Validate(); err != nil && !l.Price.IsZero() {
		return errors.Wrap(err, "price")
	}
	// zero is a valid ask, negative is not
	if !l.Price.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative price")
	}
	return nil
}

// Copy makes a new listing with the same data
func (l *Listing) Copy() orm.CloneableData {
	return &Listing{
		Owner: append([]byte(nil), l.Owner...),
		Price: l.Price.Clone(),
	}
}

// AsListing extracts a *Listing from a bucket object
func AsListing(obj orm.Object) *Listing {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Listing)
}

// Bucket is a type-safe wrapper around the listing bucket, with a
// secondary index over the owner address.
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a market.Bucket with default name
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Listing))).
		WithIndex("owner", ownerIndex, false)
	return Bucket{Bucket: b}
}

func ownerIndex(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "cannot index nil")
	}
	listing := AsListing(obj)
	if listing == nil {
		return nil, errors.Wrap(errors.ErrState, "cannot index non-listing")
	}
	return listing.Owner, nil
}

// GetListing loads the listing of an asset, nil if it is not listed
func (b Bucket) GetListing(db bazaar.ReadOnlyKVStore, assetID []byte) (*Listing, error) {
	obj, err := b.Get(db, assetID)
	if err != nil {
		return nil, err
	}
	return AsListing(obj), nil
}

// Save persists a listing under the asset id
func (b Bucket) SaveListing(db bazaar.KVStore, assetID []byte, owner bazaar.Address, price coin.Coin) error {
	listing := &Listing{Owner: owner, Price: &price}
	return b.Bucket.Save(db, orm.NewSimpleObj(assetID, listing))
}

// ByOwner returns all listings of one owner via the secondary index
func (b Bucket) ByOwner(db bazaar.ReadOnlyKVStore, owner bazaar.Address) ([]orm.Object, error) {
	return b.GetIndexed(db, "owner", owner)
}
