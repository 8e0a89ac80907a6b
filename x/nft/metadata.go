package nft

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// Attacher is the metadata attachment collaborator. The issue
// handler invokes it exactly once per asset, inside the issuance
// transition. Any error aborts the whole issuance, there is no
// retry.
type Attacher interface {
	Attach(db bazaar.KVStore, assetID []byte, meta *TokenMetadata) error
}

// BucketAttacher is the default Attacher. It persists the metadata
// to the metadata bucket and freezes it there.
type BucketAttacher struct {
	bucket MetadataBucket
}

var _ Attacher = BucketAttacher{}

// NewBucketAttacher returns an attacher writing to the default
// metadata bucket
func NewBucketAttacher() BucketAttacher {
	return BucketAttacher{bucket: NewMetadataBucket()}
}

// Attach stores the metadata under the asset id. Metadata is frozen,
// a second attach for the same asset fails.
func (a BucketAttacher) Attach(db bazaar.KVStore, assetID []byte, meta *TokenMetadata) error {
	existing, err := a.bucket.Get(db, assetID)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.Wrapf(errors.ErrImmutable, "metadata for %q", assetID)
	}
	return a.bucket.Save(db, orm.NewSimpleObj(assetID, meta))
}

// Metadata loads the frozen metadata of an asset, nil if none was
// attached.
func (a BucketAttacher) Metadata(db bazaar.ReadOnlyKVStore, assetID []byte) (*TokenMetadata, error) {
	obj, err := a.bucket.Get(db, assetID)
	if err != nil {
		return nil, err
	}
	return AsMetadata(obj), nil
}
