package nft

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// Controller is the functionality other extensions need to move
// units around. The market custody flow builds on it.
type Controller interface {
	Issue(db bazaar.KVStore, assetID []byte, issuer bazaar.Address) error
	Move(db bazaar.KVStore, assetID []byte, src, dest bazaar.Address) error
	HasUnit(db bazaar.ReadOnlyKVStore, assetID []byte, holder bazaar.Address) (bool, error)
	GetToken(db bazaar.ReadOnlyKVStore, assetID []byte) (*Token, error)
}

// TokenController implements Controller on top of the token and
// holding buckets.
type TokenController struct {
	tokens   TokenBucket
	holdings HoldingBucket
}

var _ Controller = TokenController{}

// NewController returns a controller using the default buckets
func NewController() TokenController {
	return TokenController{
		tokens:   NewTokenBucket(),
		holdings: NewHoldingBucket(),
	}
}

// Issue writes a fresh token record and mints its single unit into
// the issuer holding. An id that is already taken fails without
// touching the state.
func (c TokenController) Issue(db bazaar.KVStore, assetID []byte, issuer bazaar.Address) error {
	if err := ValidateAssetID(assetID); err != nil {
		return err
	}
	existing, err := c.tokens.Get(db, assetID)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.Wrapf(ErrAlreadyInitialized, "%q", assetID)
	}

	token := &Token{Issuer: issuer, Supply: 1}
	if err := c.tokens.Save(db, orm.NewSimpleObj(assetID, token)); err != nil {
		return errors.Wrap(err, "save token")
	}

	holding := &Holding{Units: 1}
	key := HoldingKey(assetID, issuer)
	if err := c.holdings.Save(db, orm.NewSimpleObj(key, holding)); err != nil {
		return errors.Wrap(err, "mint unit")
	}
	return nil
}

// Move transfers the unit from src to dest. The source must hold
// the unit. Moving to the same address is a noop.
func (c TokenController) Move(db bazaar.KVStore, assetID []byte, src, dest bazaar.Address) error {
	has, err := c.HasUnit(db, assetID, src)
	if err != nil {
		return err
	}
	if !has {
		return errors.Wrapf(ErrTransferFailed, "%q not held by %s", assetID, src)
	}
	if src.Equals(dest) {
		return nil
	}

	if err := c.holdings.Delete(db, HoldingKey(assetID, src)); err != nil {
		return errors.Wrap(err, "release unit")
	}
	holding := &Holding{Units: 1}
	if err := c.holdings.Save(db, orm.NewSimpleObj(HoldingKey(assetID, dest), holding)); err != nil {
		return errors.Wrap(err, "receive unit")
	}
	return nil
}

// HasUnit returns true if the holder's asset account holds the unit
func (c TokenController) HasUnit(db bazaar.ReadOnlyKVStore, assetID []byte, holder bazaar.Address) (bool, error) {
	obj, err := c.holdings.Get(db, HoldingKey(assetID, holder))
	if err != nil {
		return false, err
	}
	if obj == nil {
		return false, nil
	}
	return obj.Value().(*Holding).Units == 1, nil
}

// GetToken loads a token record, nil if the id was never issued
func (c TokenController) GetToken(db bazaar.ReadOnlyKVStore, assetID []byte) (*Token, error) {
	obj, err := c.tokens.Get(db, assetID)
	if err != nil {
		return nil, err
	}
	return AsToken(obj), nil
}
