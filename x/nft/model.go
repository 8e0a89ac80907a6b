package nft

import (
	"regexp"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

const (
	// TokenBucketName is where the token records live
	TokenBucketName = "tokens"
	// MetadataBucketName is where the frozen metadata lives
	MetadataBucketName = "tokenmeta"
	// HoldingBucketName is where the per-holder asset accounts live
	HoldingBucketName = "holdings"

	// FullShare is the creator share in basis points. Shares are not
	// split yet, so the creator always keeps everything.
	FullShare = 10000

	maxTitleSize = 128
	maxURISize   = 1024
)

var isAssetID = regexp.MustCompile(`^[a-z0-9_\-]{4,32}$`).Match

// ValidateAssetID returns an error if the given bytes are not a
// well-formed asset id.
func ValidateAssetID(id []byte) error {
	if !isAssetID(id) {
		return errors.Wrapf(ErrInvalidAssetID, "%q", id)
	}
	return nil
}

//---- Token

var _ orm.CloneableData = (*Token)(nil)

// Validate ensures the token is proper before writing it
func (t *Token) Validate() error {
	if err := bazaar.Address(t.Issuer).Validate(); err != nil {
		return errors.Wrap(err, "issuer")
	}
	if t.Supply != 1 {
		return errors.Wrapf(errors.ErrState, "supply must be 1, got %d", t.Supply)
	}
	return nil
}

// Copy makes a new token with the same data
func (t *Token) Copy() orm.CloneableData {
	return &Token{
		Issuer: append([]byte(nil), t.Issuer...),
		Supply: t.Supply,
	}
}

// AsToken extracts a *Token from a bucket object
func AsToken(obj orm.Object) *Token {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Token)
}

// TokenBucket is a type-safe wrapper around the token bucket
type TokenBucket struct {
	orm.Bucket
}

// NewTokenBucket initializes a TokenBucket with the default name
func NewTokenBucket() TokenBucket {
	return TokenBucket{
		Bucket: orm.NewBucket(TokenBucketName, orm.NewSimpleObj(nil, new(Token))),
	}
}

//---- TokenMetadata

var _ orm.CloneableData = (*TokenMetadata)(nil)

// Validate ensures the metadata is proper before writing it
func (m *TokenMetadata) Validate() error {
	if len(m.Title) == 0 {
		return errors.Wrap(errors.ErrEmpty, "title")
	}
	if len(m.Title) > maxTitleSize {
		return errors.Wrap(errors.ErrMsg, "title too long")
	}
	if len(m.Uri) > maxURISize {
		return errors.Wrap(errors.ErrMsg, "uri too long")
	}
	if err := bazaar.Address(m.Creator).Validate(); err != nil {
		return errors.Wrap(err, "creator")
	}
	if m.CreatorShare != FullShare {
		return errors.Wrapf(errors.ErrState, "creator share must be %d", FullShare)
	}
	return nil
}

// Copy makes a new metadata record with the same data
func (m *TokenMetadata) Copy() orm.CloneableData {
	return &TokenMetadata{
		Title:        m.Title,
		Uri:          m.Uri,
		Creator:      append([]byte(nil), m.Creator...),
		CreatorShare: m.CreatorShare,
	}
}

// AsMetadata extracts a *TokenMetadata from a bucket object
func AsMetadata(obj orm.Object) *TokenMetadata {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*TokenMetadata)
}

// MetadataBucket is a type-safe wrapper around the metadata bucket
type MetadataBucket struct {
	orm.Bucket
}

// NewMetadataBucket initializes a MetadataBucket with the default name
func NewMetadataBucket() MetadataBucket {
	return MetadataBucket{
		Bucket: orm.NewBucket(MetadataBucketName, orm.NewSimpleObj(nil, new(TokenMetadata))),
	}
}

//---- Holding

var _ orm.CloneableData = (*Holding)(nil)

// Validate ensures the holding holds exactly the one unit. A holding
// without the unit must be deleted, never stored.
func (h *Holding) Validate() error {
	if h.Units != 1 {
		return errors.Wrapf(errors.ErrState, "units must be 1, got %d", h.Units)
	}
	return nil
}

// Copy makes a new holding with the same data
func (h *Holding) Copy() orm.CloneableData {
	return &Holding{Units: h.Units}
}

// HoldingKey builds the composite key of a holding. Addresses are
// fixed length, so the id and holder parts cannot be confused.
func HoldingKey(assetID []byte, holder bazaar.Address) []byte {
	key := make([]byte, 0, len(assetID)+len(holder))
	key = append(key, assetID...)
	return append(key, holder...)
}

// HoldingBucket is a type-safe wrapper around the holding bucket
type HoldingBucket struct {
	orm.Bucket
}

// NewHoldingBucket initializes a HoldingBucket with the default name
func NewHoldingBucket() HoldingBucket {
	return HoldingBucket{
		Bucket: orm.NewBucket(HoldingBucketName, orm.NewSimpleObj(nil, new(Holding))),
	}
}
