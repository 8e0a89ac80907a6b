package market

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x/nft"
)

// Ensure we implement the Msg interface
var (
	_ bazaar.Msg = (*ListMsg)(nil)
	_ bazaar.Msg = (*BuyMsg)(nil)
)

const (
	pathListMsg = "market/list_nft"
	pathBuyMsg  = "market/buy_nft"

	listTxCost int64 = 200
	buyTxCost  int64 = 400
)

// Path returns the routing path for this message
func (ListMsg) Path() string {
	return pathListMsg
}

// Validate makes sure that this is sensible
func (m *ListMsg) Validate() error {
	if err := nft.ValidateAssetID(m.AssetId); err != nil {
		return err
	}
	// owner may be empty, it defaults to the main signer
	if len(m.Owner) != 0 {
		if err := bazaar.Address(m.Owner).Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	if m.Price == nil {
		return errors.Wrap(errors.ErrEmpty, "price")
	}
	// zero is a valid ask, negative is not
	if !m.Price.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative price")
	}
	if !m.Price.IsZero() {
		if err := m.Price.Validate(); err != nil {
			return errors.Wrap(err, "price")
		}
	}
	return nil
}

// DefaultOwner makes sure there is an owner.
// If it was already set, returns m.
// If none was set, returns a new ListMsg with the owner set
func (m *ListMsg) DefaultOwner(addr []byte) *ListMsg {
	if len(m.GetOwner()) != 0 {
		return m
	}
	return &ListMsg{
		AssetId: m.GetAssetId(),
		Owner:   addr,
		Price:   m.GetPrice(),
	}
}

// Path returns the routing path for this message
func (BuyMsg) Path() string {
	return pathBuyMsg
}

// Validate makes sure that this is sensible
func (m *BuyMsg) Validate() error {
	if err := nft.ValidateAssetID(m.AssetId); err != nil {
		return err
	}
	// buyer may be empty, it defaults to the main signer
	if len(m.Buyer) != 0 {
		if err := bazaar.Address(m.Buyer).Validate(); err != nil {
			return errors.Wrap(err, "buyer")
		}
	}
	return nil
}

// DefaultBuyer makes sure there is a buyer.
// If it was already set, returns m.
// If none was set, returns a new BuyMsg with the buyer set
func (m *BuyMsg) DefaultBuyer(addr []byte) *BuyMsg {
	if len(m.GetBuyer()) != 0 {
		return m
	}
	return &BuyMsg{
		AssetId: m.GetAssetId(),
		Buyer:   addr,
	}
}
